package httpapi

import (
	"net/http"
	"strconv"

	"timeclock/internal/domain"
	"timeclock/internal/errors"
	"timeclock/internal/logging"
	"timeclock/internal/services"

	"github.com/gin-gonic/gin"
)

type employeeView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HourlyWage *int64 `json:"hourly_wage,omitempty"`
}

func viewOfEmployee(e domain.Employee) employeeView {
	v := employeeView{ID: e.ID, Name: e.Name}
	if e.HasWage() {
		wage := e.HourlyWage
		v.HourlyWage = &wage
	}
	return v
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.api.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]employeeView, len(employees))
	for i, e := range employees {
		views[i] = viewOfEmployee(e)
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) getEmployee(c *gin.Context) {
	emp, err := h.api.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOfEmployee(*emp))
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	if err := h.api.RemoveEmployee(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getStatus(c *gin.Context) {
	status, err := h.api.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// getHistory accepts either ?days=N or ?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) getHistory(c *gin.Context) {
	ctx := c.Request.Context()
	var q services.HistoryQuery

	if days := c.Query("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			h.fail(c, errors.NewInvalidInputError("days", days, "must be a number"))
			return
		}
		q.Days = n
	}
	if from := c.Query("from"); from != "" {
		t, err := h.api.ParseDay(ctx, from)
		if err != nil {
			h.fail(c, err)
			return
		}
		q.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := h.api.ParseDay(ctx, to)
		if err != nil {
			h.fail(c, err)
			return
		}
		q.To = &t
	}

	report, err := h.api.History(ctx, c.Param("id"), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// getSummary returns all periods, or one when ?period= is given
func (h *Handler) getSummary(c *gin.Context) {
	ctx := c.Request.Context()
	live, err := boolQuery(c, "live")
	if err != nil {
		h.fail(c, err)
		return
	}

	if period := c.Query("period"); period != "" {
		total, err := h.api.PeriodTotals(ctx, c.Param("id"), period, live)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
		return
	}

	summary, err := h.api.Summary(ctx, c.Param("id"), live)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) postPunch(c *gin.Context) {
	var req services.PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidationError("invalid punch request body", err))
		return
	}

	result, err := h.api.Punch(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) getRoster(c *gin.Context) {
	live, err := boolQuery(c, "live")
	if err != nil {
		h.fail(c, err)
		return
	}
	roster, err := h.api.Roster(c.Request.Context(), c.Query("date"), live)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func (h *Handler) getAdminSummary(c *gin.Context) {
	summary, err := h.api.AdminSummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getLogLevel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"current logLevel": h.levelVar.Level().String()})
}

func (h *Handler) setLogLevel(c *gin.Context) {
	level, err := logging.ParseLevel(c.Param("level"))
	if err != nil {
		h.fail(c, errors.NewInvalidInputError("level", c.Param("level"), err.Error()))
		return
	}
	h.levelVar.Set(level)
	h.logger.Info("log level changed", "level", level.String())
	c.JSON(http.StatusOK, gin.H{"current logLevel": level.String()})
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.NewInvalidInputError(key, v, "must be true or false")
	}
	return b, nil
}
