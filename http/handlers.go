package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"airsat/config"
	"airsat/ml"
)

// Handler 预测表单、JSON API与实时预测WebSocket的处理器
type Handler struct {
	predictor   *ml.Predictor
	modelLoaded func() bool
	ui          config.UIConfig
	logger      *zap.Logger
}

// NewHandler 创建处理器。modelLoaded报告当前是否已加载模型，nil视为始终已加载
func NewHandler(predictor *ml.Predictor, modelLoaded func() bool, ui config.UIConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if modelLoaded == nil {
		modelLoaded = func() bool { return true }
	}
	return &Handler{
		predictor:   predictor,
		modelLoaded: modelLoaded,
		ui:          ui,
		logger:      logger,
	}
}

type predictResponse struct {
	Label        int       `json:"label"`
	Result       string    `json:"result"`
	Confidence   float64   `json:"confidence"`
	Features     []float64 `json:"features"`
	FeatureNames []string  `json:"feature_names"`
}

func newPredictResponse(p ml.Prediction) predictResponse {
	return predictResponse{
		Label:        int(p.Label),
		Result:       p.Display(),
		Confidence:   p.Confidence,
		Features:     p.Features[:],
		FeatureNames: ml.FeatureNames(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// classifyError 将预测错误映射为状态码与响应体，输入错误与模型不可用分开返回
func classifyError(err error) (int, errorResponse) {
	var inputErr *ml.InputError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Code: inputErr.Code(), Field: inputErr.Field}
	case errors.Is(err, ml.ErrClassifierUnavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: "prediction model is unavailable", Code: "classifier_unavailable"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal"}
	}
}

// decodeError 缺失字段按输入错误处理，其余解码失败统一为bad_request
func decodeError(err error) (int, errorResponse) {
	if ml.IsInputError(err) {
		return classifyError(err)
	}
	return http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Code: "bad_request"}
}

func (h *Handler) predict(r *http.Request, in ml.PassengerInput) (ml.Prediction, error) {
	prediction, err := h.predictor.Predict(in)
	log := h.logger.With(zap.String("request_id", GetRequestID(r.Context())))
	switch {
	case err == nil:
		log.Debug("prediction", zap.Int("label", int(prediction.Label)), zap.Float64("confidence", prediction.Confidence))
	case ml.IsInputError(err):
		log.Debug("rejected passenger input", zap.Error(err))
	default:
		log.Error("prediction failed", zap.Error(err))
	}
	return prediction, err
}

// handleHealth 健康检查
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"model_loaded": h.modelLoaded(),
	})
}

// handlePredict 处理JSON预测请求
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	in, err := ml.DecodePassenger(r.Body)
	if err != nil {
		status, body := decodeError(err)
		writeJSON(w, status, body)
		return
	}

	prediction, err := h.predict(r, in)
	if err != nil {
		status, body := classifyError(err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, newPredictResponse(prediction))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
