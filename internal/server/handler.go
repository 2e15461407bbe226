package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/dengyintao/ProcessExcelData/internal/apperr"
	"github.com/dengyintao/ProcessExcelData/internal/config"
	"github.com/dengyintao/ProcessExcelData/internal/model"
	"github.com/dengyintao/ProcessExcelData/internal/service/processor"
	"github.com/dengyintao/ProcessExcelData/internal/service/settings"
)

// SessionLog 会话日志
type SessionLog interface {
	Log(msg string)
	Lines() []string
	Path() string
}

// RunLister 处理记录查询
type RunLister interface {
	ListRuns(limit int) ([]model.ProcessRun, error)
}

// Handler API 处理器
//
// 所有请求串行执行：同一时间只有一个处理流程在读写文件。
type Handler struct {
	mu        sync.Mutex
	settings  *settings.Store
	processor *processor.Processor
	log       SessionLog
	history   RunLister
	presets   config.PresetsConfig
}

// NewHandler 创建 API 处理器；history 可为 nil
func NewHandler(st *settings.Store, proc *processor.Processor, log SessionLog, history RunLister, presets config.PresetsConfig) *Handler {
	return &Handler{
		settings:  st,
		processor: proc,
		log:       log,
		history:   history,
		presets:   presets,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.Use(h.serialize)

	router.GET("/status", h.GetStatus)

	// 配置
	router.GET("/config", h.GetConfig)
	router.PUT("/config", h.UpdateConfig)
	router.POST("/config/preset", h.ApplyPreset)

	// 字段
	router.POST("/fields", h.ListFields)
	router.POST("/fields/refresh", h.RefreshFields)

	router.POST("/backup", h.Backup)
	router.POST("/process", h.Process)

	router.GET("/logs", h.GetLogs)
	router.GET("/history", h.ListHistory)
}

func (h *Handler) serialize(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Next()
}

// statusFor 错误种类 -> HTTP 状态码
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindMissingField:
		return http.StatusBadRequest
	case apperr.KindDataParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error": apperr.Message(err),
		"kind":  apperr.KindOf(err).String(),
	})
}

func badRequest(c *gin.Context, msg string) {
	fail(c, apperr.Validation(msg))
}

// GetStatus 服务状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settingsFile": h.settings.Path(),
		"logFile":      h.log.Path(),
	})
}

// GetConfig 读取当前配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, info := h.settings.Load()
	c.JSON(http.StatusOK, gin.H{
		"config":       cfg,
		"defaultsUsed": info.DefaultsUsed,
		"reason":       info.Reason,
	})
}

// UpdateConfig 保存配置，请求中未出现的键保持原值
// PUT /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	cfg, _ := h.settings.Load()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, "参数错误")
		return
	}
	mt, ok := model.ParseMatchType(string(cfg.MatchType))
	if !ok {
		badRequest(c, "未知的匹配类型: "+string(cfg.MatchType))
		return
	}
	cfg.MatchType = mt

	if err := h.settings.Save(cfg); err != nil {
		h.log.Log("保存配置时发生错误: " + err.Error())
		fail(c, err)
		return
	}
	h.log.Log("配置已保存")
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// ApplyPreset 切换匹配类型并按预设填充匹配字段
// POST /api/config/preset
func (h *Handler) ApplyPreset(c *gin.Context) {
	var req struct {
		MatchType string `json:"matchType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误")
		return
	}
	mt, ok := model.ParseMatchType(req.MatchType)
	if !ok {
		badRequest(c, "未知的匹配类型: "+req.MatchType)
		return
	}

	cfg, _ := h.settings.Load()
	cfg = settings.ApplyPreset(cfg, mt, h.presets)
	if err := h.settings.Save(cfg); err != nil {
		h.log.Log("保存配置时发生错误: " + err.Error())
		fail(c, err)
		return
	}
	h.log.Log("配置已保存")
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

type pathRequest struct {
	Path string `json:"path"`
}

// ListFields 读取单个文件的表头
// POST /api/fields
func (h *Handler) ListFields(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Path) == "" {
		badRequest(c, "请选择文件")
		return
	}
	cols, err := h.processor.Columns(req.Path)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": cols})
}

// RefreshFields 读取两个源文件的表头
// POST /api/fields/refresh
func (h *Handler) RefreshFields(c *gin.Context) {
	cfg, _ := h.settings.Load()
	lists, err := h.processor.RefreshFields(cfg)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// Backup 备份单个文件
// POST /api/backup
func (h *Handler) Backup(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误")
		return
	}
	dest, err := h.processor.Backup(req.Path)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backup": dest})
}

// Process 开始处理；请求体中的字段覆盖已保存的配置
// POST /api/process
func (h *Handler) Process(c *gin.Context) {
	cfg, _ := h.settings.Load()
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			badRequest(c, "参数错误")
			return
		}
	}

	report, err := h.processor.Run(cfg)
	if err != nil {
		resp := gin.H{
			"error": apperr.Message(err),
			"kind":  apperr.KindOf(err).String(),
		}
		if report != nil {
			resp["runId"] = report.RunID
		}
		c.JSON(statusFor(err), resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":  report,
		"summary": processor.Summary(report.Result),
	})
}

// GetLogs 本次会话的日志
// GET /api/logs
func (h *Handler) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"path":  h.log.Path(),
		"lines": h.log.Lines(),
	})
}

// ListHistory 最近的处理记录
// GET /api/history?limit=N
func (h *Handler) ListHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "limit 参数错误")
			return
		}
		limit = n
	}
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []model.ProcessRun{}})
		return
	}
	runs, err := h.history.ListRuns(limit)
	if err != nil {
		fail(c, fmt.Errorf("读取处理记录失败: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
