package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"airsat/config"
	"airsat/ml"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"percent": func(share float64) float64 { return share * 100 },
}).ParseFS(templateFS, "templates/index.html"))

type ratingField struct {
	Name  string
	Label string
	Value int
}

var ratingLabels = map[string]string{
	"wifi":             "Inflight Wifi Service",
	"time_convenience": "Departure/Arrival Time Convenience",
	"online_booking":   "Ease of Online Booking",
	"food":             "Food and Drink Quality",
	"online_boarding":  "Online Boarding",
	"seat_comfort":     "Seat Comfort",
	"entertainment":    "Inflight Entertainment",
	"onboard_service":  "On-board Service",
	"legroom":          "Leg Room Service",
	"baggage":          "Baggage Handling",
	"checkin":          "Check-in Service",
	"inflight_service": "Inflight Service",
	"cleanliness":      "Cleanliness",
}

// viewState 侧边栏展开状态，只保存在请求URL或提交的表单中，服务端不保存
type viewState struct {
	ShowTeam  bool
	ShowPlots bool
}

func viewStateFrom(values url.Values) viewState {
	return viewState{
		ShowTeam:  values.Get("team") == "1",
		ShowPlots: values.Get("plots") == "1",
	}
}

func (v viewState) query() url.Values {
	q := url.Values{}
	if v.ShowTeam {
		q.Set("team", "1")
	}
	if v.ShowPlots {
		q.Set("plots", "1")
	}
	return q
}

func (v viewState) href() string {
	if q := v.query().Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

func (v viewState) ToggleTeamURL() string {
	v.ShowTeam = !v.ShowTeam
	return v.href()
}

func (v viewState) TogglePlotsURL() string {
	v.ShowPlots = !v.ShowPlots
	return v.href()
}

type formValues struct {
	Gender            string
	CustomerType      string
	Age               string
	TravelType        string
	Class             string
	FlightDistanceKm  string
	DepartureDelayMin string
	ArrivalDelayMin   string
	Ratings           []ratingField
}

func defaultFormValues() formValues {
	f := formValues{
		Gender:            string(ml.GenderFemale),
		CustomerType:      string(ml.CustomerLoyal),
		Age:               "30",
		TravelType:        string(ml.TravelBusiness),
		Class:             string(ml.ClassBusiness),
		FlightDistanceKm:  "500",
		DepartureDelayMin: "0",
		ArrivalDelayMin:   "0",
	}
	for _, name := range ml.RatingNames {
		f.Ratings = append(f.Ratings, ratingField{Name: name, Label: ratingLabels[name], Value: 1})
	}
	return f
}

func formValuesFrom(values url.Values) formValues {
	f := defaultFormValues()
	pick := func(dst *string, key string) {
		if v, ok := values[key]; ok && len(v) > 0 {
			*dst = strings.TrimSpace(v[0])
		}
	}
	pick(&f.Gender, "gender")
	pick(&f.CustomerType, "customer_type")
	pick(&f.Age, "age")
	pick(&f.TravelType, "travel_type")
	pick(&f.Class, "class")
	pick(&f.FlightDistanceKm, "flight_distance_km")
	pick(&f.DepartureDelayMin, "departure_delay_min")
	pick(&f.ArrivalDelayMin, "arrival_delay_min")
	for i := range f.Ratings {
		if n, err := strconv.Atoi(values.Get(f.Ratings[i].Name)); err == nil {
			f.Ratings[i].Value = n
		}
	}
	return f
}

// parsePassengerForm 解析提交的表单。所有字段必填，非数字的数值按超出范围处理
func parsePassengerForm(values url.Values) (ml.PassengerInput, error) {
	var in ml.PassengerInput
	var err error

	if in.Gender, err = ml.ParseGender(values.Get("gender")); err != nil {
		return in, err
	}
	if in.CustomerType, err = ml.ParseCustomerType(values.Get("customer_type")); err != nil {
		return in, err
	}
	if in.Age, err = formInt(values, "age"); err != nil {
		return in, err
	}
	if in.TravelType, err = ml.ParseTravelType(values.Get("travel_type")); err != nil {
		return in, err
	}
	if in.Class, err = ml.ParseClass(values.Get("class")); err != nil {
		return in, err
	}
	if in.FlightDistanceKm, err = formInt(values, "flight_distance_km"); err != nil {
		return in, err
	}
	for _, name := range ml.RatingNames {
		score, err := formInt(values, name)
		if err != nil {
			return in, err
		}
		in.Ratings.SetByName(name, score)
	}
	if in.DepartureDelayMin, err = formInt(values, "departure_delay_min"); err != nil {
		return in, err
	}
	if in.ArrivalDelayMin, err = formInt(values, "arrival_delay_min"); err != nil {
		return in, err
	}
	return in, nil
}

func formInt(values url.Values, field string) (int, error) {
	raw := strings.TrimSpace(values.Get(field))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ml.InputError{Field: field, Value: raw, Kind: ml.ErrOutOfRange}
	}
	return n, nil
}

type pageData struct {
	UI                  config.UIConfig
	View                viewState
	Form                formValues
	GenderOptions       []ml.Option
	CustomerTypeOptions []ml.Option
	TravelTypeOptions   []ml.Option
	ClassOptions        []ml.Option
	Result              string
	Satisfied           bool
	Confidence          float64
	Error               string
	ErrorKind           string
}

func (h *Handler) newPage(view viewState, form formValues) pageData {
	return pageData{
		UI:                  h.ui,
		View:                view,
		Form:                form,
		GenderOptions:       ml.GenderOptions,
		CustomerTypeOptions: ml.CustomerTypeOptions,
		TravelTypeOptions:   ml.TravelTypeOptions,
		ClassOptions:        ml.ClassOptions,
	}
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, h.newPage(viewStateFrom(r.URL.Query()), defaultFormValues()))
}

// handleFormSubmit 处理表单提交并渲染预测结果
func (h *Handler) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page := h.newPage(viewStateFrom(r.PostForm), formValuesFrom(r.PostForm))
	status := http.StatusOK

	in, err := parsePassengerForm(r.PostForm)
	if err == nil {
		var prediction ml.Prediction
		if prediction, err = h.predict(r, in); err == nil {
			page.Result = prediction.Display()
			page.Satisfied = prediction.Label == ml.LabelSatisfied
			page.Confidence = prediction.Confidence
		}
	}
	if err != nil {
		status, _ = classifyError(err)
		switch {
		case ml.IsInputError(err):
			page.ErrorKind = "input"
			page.Error = "Please check your input: " + err.Error()
		case errors.Is(err, ml.ErrClassifierUnavailable):
			page.ErrorKind = "classifier"
			page.Error = "The prediction model is currently unavailable. Please try again later."
		default:
			page.ErrorKind = "internal"
			page.Error = "Something went wrong while predicting."
		}
	}
	h.renderPage(w, status, page)
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, page); err != nil {
		h.logger.Error("render form page", zap.Error(err))
	}
}

func (h *Handler) staticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(h.ui.AssetsDir)))
}
