package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/star/sunpath/internal/config"
	"github.com/star/sunpath/internal/httputil"
	"github.com/star/sunpath/internal/solar"
	"github.com/star/sunpath/internal/sunview"
)

// sunHandlers serves the /api/v1/sun routes.
type sunHandlers struct {
	model    solar.Model
	defaults config.Defaults
	now      func() time.Time
	logger   *slog.Logger
}

// selection is a validated (latitude, day, radius) query.
type selection struct {
	latitude float64
	day      int
	radius   float64
}

func (h *sunHandlers) parseSelection(q url.Values) (selection, error) {
	var (
		sel selection
		err error
	)
	if sel.latitude, err = httputil.FloatParam(q, "lat", h.defaults.Latitude, -90, 90); err != nil {
		return sel, err
	}
	if sel.day, err = h.parseDay(q); err != nil {
		return sel, err
	}
	if sel.radius, err = httputil.FloatParam(q, "radius", h.defaults.Radius, 0, config.MaxRadius); err != nil {
		return sel, err
	}
	if sel.radius <= 0 {
		return sel, errors.New("invalid radius parameter, must be greater than 0")
	}
	return sel, nil
}

// parseDay reads "day", defaulting to today's day of the year.
func (h *sunHandlers) parseDay(q url.Values) (int, error) {
	return httputil.IntParam(q, "day", solar.DayOfYear(h.now()), solar.MinDay, solar.MaxDay)
}

// track handles GET /api/v1/sun/track?lat=&day=
func (h *sunHandlers) track(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sunview.Track(h.model, sel.latitude, sel.day))
}

// polar handles GET /api/v1/sun/polar?lat=&day=&radius=
func (h *sunHandlers) polar(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	proj, err := sunview.Polar(h.model, sel.latitude, sel.day, sel.radius)
	if err != nil {
		h.logger.Error("polar projection failed", "component", "api", "request_id", RequestID(r.Context()), "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "projection failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, proj)
}

// view handles GET /api/v1/sun/view?lat=&day=&radius=
func (h *sunHandlers) view(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := sunview.Build(h.model, sel.latitude, sel.day, sel.radius)
	if err != nil {
		h.logger.Error("view build failed", "component", "api", "request_id", RequestID(r.Context()), "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "view failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

type declinationResponse struct {
	Day         int     `json:"day"`
	Declination float64 `json:"declination"`
	Readout     string  `json:"declination_readout"`
}

// declination handles GET /api/v1/sun/declination?day=
func (h *sunHandlers) declination(w http.ResponseWriter, r *http.Request) {
	day, err := h.parseDay(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	dec := h.model.DayToDeclination(float64(day))
	httputil.WriteJSON(w, http.StatusOK, declinationResponse{
		Day:         day,
		Declination: dec,
		Readout:     solar.FormatDeclination(dec),
	})
}

type dayResponse struct {
	Declination   float64 `json:"declination"`
	AscendingDay  float64 `json:"ascending_day"`
	DescendingDay float64 `json:"descending_day"`
}

// day handles GET /api/v1/sun/day?declination=
func (h *sunHandlers) day(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("declination")
	if raw == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing declination parameter")
		return
	}
	dec, err := strconv.ParseFloat(raw, 64)
	tilt := math.Abs(h.model.AxialTilt)
	if err != nil || math.IsNaN(dec) || math.Abs(dec) > tilt {
		httputil.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid declination parameter, must be %g to %g", -tilt, tilt))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dayResponse{
		Declination:   dec,
		AscendingDay:  h.model.DeclinationToDay(dec),
		DescendingDay: h.model.DescendingDay(dec),
	})
}

type marksResponse struct {
	Min   int             `json:"min"`
	Max   int             `json:"max"`
	Marks []solar.DayMark `json:"marks"`
}

// marks handles GET /api/v1/sun/marks
func (h *sunHandlers) marks(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, marksResponse{
		Min:   solar.MinDay,
		Max:   solar.MaxDay,
		Marks: solar.DayMarks(),
	})
}
