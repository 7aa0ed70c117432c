package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"rfcredit/internal/evaluation"
	"rfcredit/internal/models"
	"rfcredit/pkg/utils"
)

type server struct {
	bundle    *models.Bundle
	curvePath string
	logger    *zap.Logger
}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	path := os.Getenv("MODEL_PATH")
	if path == "" {
		path = "models/rf_model.gob"
	}
	b, err := models.LoadBundle(path)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", path), zap.Error(err))
	}
	curve := os.Getenv("CURVE_CSV")
	if curve == "" {
		curve = "data/learning_curve.csv"
	}
	logger.Info("model loaded", zap.String("path", path), zap.String("model", b.Forest.Name()), zap.Int("trees", len(b.Forest.Trees)))

	s := &server{bundle: b, curvePath: curve, logger: logger}
	r := s.router(os.Getenv("API_KEY"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) router(apiKey string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics/curve", s.handleCurve)

	api := r.Group("/")
	api.Use(apiKeyMiddleware(apiKey))
	api.GET("/model", s.handleModel)
	api.POST("/predict", s.handlePredict)
	api.POST("/batch", s.handleBatch)
	return r
}

func apiKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-Key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// predictReq carries either raw CSV fields, encoded with the model's encoder,
// or an already encoded feature vector.
type predictReq struct {
	Fields   []string  `json:"fields"`
	Features []float64 `json:"features"`
}

type predictResp struct {
	Raw           float64 `json:"raw"`
	Class         float64 `json:"class"`
	VotesForClass int     `json:"votes_for_class"`
	Trees         int     `json:"trees"`
}

func (s *server) score(req predictReq) (predictResp, error) {
	x := req.Features
	if len(req.Fields) > 0 {
		if s.bundle.Encoder == nil {
			return predictResp{}, errors.New("model has no encoder, send encoded features")
		}
		v, err := s.bundle.Encoder.Vectorize(req.Fields)
		if err != nil {
			return predictResp{}, err
		}
		x = v
	}
	votes, err := s.bundle.Forest.Votes(x)
	if err != nil {
		return predictResp{}, err
	}
	raw, err := models.MajorityVote(votes)
	if err != nil {
		return predictResp{}, err
	}
	n := 0
	for _, v := range votes {
		if v == raw {
			n++
		}
	}
	return predictResp{Raw: raw, Class: evaluation.Classify(raw, s.bundle.Threshold), VotesForClass: n, Trees: len(votes)}, nil
}

func (s *server) handlePredict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	resp, err := s.score(req)
	if err != nil {
		s.logger.Debug("predict rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) handleBatch(c *gin.Context) {
	var items []predictReq
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	out := make([]predictResp, 0, len(items))
	for i, it := range items {
		resp, err := s.score(it)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "item": i})
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *server) handleModel(c *gin.Context) {
	rf := s.bundle.Forest
	var names []string
	if s.bundle.Encoder != nil {
		names = s.bundle.Encoder.Names
	}
	trees := make([]gin.H, 0, len(rf.Trees))
	for i := range rf.Trees {
		t := &rf.Trees[i]
		f := t.SplitFeature()
		item := gin.H{
			"feature":     f,
			"threshold":   t.Stump.Threshold,
			"left_value":  t.Stump.LeftValue,
			"right_value": t.Stump.RightValue,
			"features":    t.Features,
		}
		if f >= 0 && f < len(names) {
			item["feature_name"] = names[f]
		}
		trees = append(trees, item)
	}
	c.JSON(http.StatusOK, gin.H{
		"model":        rf.Name(),
		"n_estimators": rf.NEstimators,
		"max_depth":    rf.MaxDepth,
		"max_features": rf.MaxFeatures,
		"n_features":   rf.NFeatures,
		"threshold":    s.bundle.Threshold,
		"trees":        trees,
	})
}

func (s *server) handleCurve(c *gin.Context) {
	row, err := evaluation.LastCurveRow(s.curvePath)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"metrics": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": row})
}
