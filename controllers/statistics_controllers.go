package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/reports"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatisticsController struct {
	Service *services.StatisticsService
}

func NewStatisticsController(svc *services.StatisticsService) *StatisticsController {
	return &StatisticsController{Service: svc}
}

// DailyAccess -> sparse per-day counts between startDate and endDate (inclusive)
func (sc *StatisticsController) DailyAccess(c *gin.Context) {
	start, end, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	tableID, ok := optionalUintQuery(c, "tableId")
	if !ok {
		return
	}

	stats, err := sc.Service.DailyAccess(c.Request.Context(), c.Param("slug"), start, end, tableID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily access statistics", stats)
}

// QRAccess -> 24 hourly counts for one day
func (sc *StatisticsController) QRAccess(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	tableID, ok := optionalUintQuery(c, "tableId")
	if !ok {
		return
	}

	stats, err := sc.Service.HourlyAccess(c.Request.Context(), c.Param("slug"), date, tableID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Hourly access statistics", stats)
}

// Export -> downloadable report, format=xlsx (default) or pdf
func (sc *StatisticsController) Export(c *gin.Context) {
	start, end, ok := dateRangeQuery(c)
	if !ok {
		return
	}
	tableID, ok := optionalUintQuery(c, "tableId")
	if !ok {
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "pdf" {
		utils.RespondAppError(c, utils.Validation("format must be xlsx or pdf"))
		return
	}

	report, err := sc.Service.BuildReport(c.Request.Context(), c.Param("slug"), start, end, tableID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var buf bytes.Buffer
	contentType := xlsxContentType
	if format == "pdf" {
		contentType = "application/pdf"
		err = reports.WritePDF(&buf, report)
	} else {
		err = reports.WriteXLSX(&buf, report)
	}
	if err != nil {
		utils.RespondAppError(c, utils.Internal("render report", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, report.FileName(), format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		utils.RespondAppError(c, utils.Validation(name+" is required"))
		return time.Time{}, false
	}
	t, err := services.ParseDate(raw)
	if err != nil {
		utils.RespondAppError(c, utils.Validation(name+" must be a date (YYYY-MM-DD)"))
		return time.Time{}, false
	}
	return t, true
}

func dateRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	start, ok := dateQuery(c, "startDate")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := dateQuery(c, "endDate")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		utils.RespondAppError(c, utils.Validation("endDate must not be before startDate"))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
