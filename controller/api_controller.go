package controller

import (
	"net/http"

	"github.com/devmetrics/langstats/config"
	"github.com/devmetrics/langstats/model"
	"github.com/gin-gonic/gin"
)

// Reports holds the computed artifacts served by the read-only API
type Reports struct {
	ByName        []model.UserLanguages
	Total         model.LanguageMap
	PercentByName []model.UserPercent
	Weighted      model.WeightedReport
}

type APIController interface {
	GetByName(ctx *gin.Context)
	GetTotal(ctx *gin.Context)
	GetPercentByName(ctx *gin.Context)
	GetWeighted(ctx *gin.Context)
}

type apiController struct {
	reports Reports
	config  config.Config
}

func NewAPIController(config config.Config, reports Reports) APIController {
	return apiController{
		reports: reports,
		config:  config,
	}
}

func (s apiController) GetByName(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.ByName)
}

func (s apiController) GetTotal(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.Total)
}

func (s apiController) GetPercentByName(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.PercentByName)
}

func (s apiController) GetWeighted(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.Weighted)
}
