package apihttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mandimitra/internal/analysis/visual"
	"mandimitra/internal/dataset"
	"mandimitra/internal/engine"
	"mandimitra/internal/forecast"
	"mandimitra/internal/logger"
	"mandimitra/internal/logistics"
	"mandimitra/internal/mandi"
	"mandimitra/internal/pkg/geo"
	"mandimitra/internal/store/decisionlog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// SnapshotProvider hands out immutable dataset snapshots. Every request runs
// against exactly one snapshot, so a hot reload mid-request cannot mix
// dataset versions.
type SnapshotProvider interface {
	Snapshot() dataset.Snapshot
}

// DecisionLog is the evaluation history the router appends to and reads from.
type DecisionLog interface {
	Append(ctx context.Context, rec decisionlog.Record) error
	List(ctx context.Context, limit, offset int) ([]decisionlog.Record, error)
	Get(ctx context.Context, traceID string) (decisionlog.Record, bool, error)
	Count(ctx context.Context) (int64, error)
}

// Router exposes the decision API.
type Router struct {
	snapshots SnapshotProvider
	rates     logistics.RateTable
	opts      engine.Options
	logs      DecisionLog
}

// NewRouter builds the API router. logs may be nil; history endpoints then
// report 503.
func NewRouter(snapshots SnapshotProvider, rates logistics.RateTable, opts engine.Options, logs DecisionLog) *Router {
	return &Router{snapshots: snapshots, rates: rates, opts: opts, logs: logs}
}

// Register mounts the API under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/evaluate", r.handleEvaluate)
	group.GET("/decisions", r.handleDecisions)
	group.GET("/decisions/:id", r.handleDecisionByID)
	group.GET("/markets", r.handleMarkets)
	group.GET("/facilities", r.handleFacilities)
	group.GET("/forecast/chart", r.handleForecastChart)
}

type evaluateRequest struct {
	Crop           string    `json:"crop"`
	QuantityKg     float64   `json:"quantity_kg"`
	Location       geo.Point `json:"location"`
	HarvestDate    string    `json:"harvest_date"`
	EvaluationDate string    `json:"evaluation_date"`
}

type evaluateResponse struct {
	TraceID        string         `json:"trace_id"`
	GeneratedAt    time.Time      `json:"generated_at"`
	DatasetVersion int64          `json:"dataset_version"`
	Result         *engine.Result `json:"result"`
}

func (r *Router) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Crop) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "crop is required"})
		return
	}
	harvest, err := time.Parse(dateLayout, req.HarvestDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "harvest_date must be YYYY-MM-DD"})
		return
	}
	evalDate := time.Now().UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(req.EvaluationDate) != "" {
		evalDate, err = time.Parse(dateLayout, req.EvaluationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "evaluation_date must be YYYY-MM-DD"})
			return
		}
	}

	snap := r.snapshots.Snapshot()
	eng := engine.New(snap, r.rates, r.opts)
	result, err := eng.Evaluate(c.Request.Context(), engine.Request{
		Crop:           req.Crop,
		QuantityKg:     req.QuantityKg,
		Location:       req.Location,
		HarvestDate:    harvest,
		EvaluationDate: evalDate,
	})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("[api] evaluate failed crop=%s ip=%s err=%v", req.Crop, c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := evaluateResponse{
		TraceID:        uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		DatasetVersion: snap.Version,
		Result:         result,
	}
	r.appendLog(c.Request.Context(), resp)
	c.JSON(http.StatusOK, resp)
}

// appendLog records the evaluation; a full log never blocks the response.
func (r *Router) appendLog(ctx context.Context, resp evaluateResponse) {
	if r.logs == nil {
		return
	}
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		logger.Warnf("[api] decision log marshal failed trace=%s err=%v", resp.TraceID, err)
		return
	}
	err = r.logs.Append(ctx, decisionlog.Record{
		TraceID:    resp.TraceID,
		Crop:       resp.Result.Crop,
		QuantityKg: resp.Result.QuantityKg,
		Decision:   string(resp.Result.StorageDecision),
		BestMarket: resp.Result.BestMarketName,
		NetProfit:  resp.Result.NetProfit,
		Result:     raw,
		CreatedAt:  resp.GeneratedAt,
	})
	if err != nil {
		logger.Warnf("[api] decision log append failed trace=%s err=%v", resp.TraceID, err)
	}
}

func (r *Router) handleDecisions(c *gin.Context) {
	if r.logs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "decision log disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	recs, err := r.logs.List(ctx, limit, offset)
	if err != nil {
		logger.Errorf("[api] decisions list failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := r.logs.Count(ctx)
	if err != nil {
		logger.Warnf("[api] decisions count failed ip=%s err=%v", c.ClientIP(), err)
		total = -1
	}
	c.JSON(http.StatusOK, gin.H{"decisions": recs, "total_count": total})
}

func (r *Router) handleDecisionByID(c *gin.Context) {
	if r.logs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "decision log disabled"})
		return
	}
	rec, ok, err := r.logs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "decision not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *Router) handleMarkets(c *gin.Context) {
	snap := r.snapshots.Snapshot()
	provider := snap.Markets()
	markets := provider.Markets()

	// ?crop= narrows the directory to markets that trade the crop.
	if crop := strings.TrimSpace(c.Query("crop")); crop != "" {
		filtered := markets[:0]
		for _, m := range markets {
			_, ok, err := provider.Snapshot(c.Request.Context(), m.Name, crop)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if ok {
				filtered = append(filtered, m)
			}
		}
		markets = filtered
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset_version": snap.Version,
		"markets":         markets,
	})
}

func (r *Router) handleFacilities(c *gin.Context) {
	snap := r.snapshots.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"dataset_version": snap.Version,
		"facilities":      snap.Facilities(),
	})
}

func (r *Router) handleForecastChart(c *gin.Context) {
	crop := strings.TrimSpace(c.Query("crop"))
	if crop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "crop is required"})
		return
	}
	market := strings.TrimSpace(c.Query("market"))

	snap := r.snapshots.Snapshot()
	provider := snap.Markets()

	var data mandi.PriceData
	found := false
	if market != "" {
		d, ok, err := provider.Snapshot(c.Request.Context(), market, crop)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		data, found = d, ok
	} else {
		for _, m := range provider.Markets() {
			d, ok, err := provider.Snapshot(c.Request.Context(), m.Name, crop)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if ok {
				data, found = d, true
				break
			}
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price data for " + crop})
		return
	}

	fc := forecast.Project(data.History, data.CurrentPrice, r.opts.ForecastHorizonDays, r.opts.MaxProjectionSwingPct)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err := visual.RenderForecastHTML(c.Writer, visual.ChartInput{
		Crop:     data.Crop,
		Market:   data.Market,
		History:  data.History,
		Forecast: fc,
	})
	if err != nil {
		logger.Errorf("[api] forecast chart render failed crop=%s err=%v", crop, err)
	}
}
