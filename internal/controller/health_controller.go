package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	sqlDB, err := c.DB.DB()
	if err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	ctx.JSON(status, gin.H{
		"status":    dbStatus,
		"timestamp": time.Now().Unix(),
	})
}
