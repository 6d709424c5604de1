package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"airsat/ml"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsReadLimit  = 1 << 16
)

// MessageType WebSocket消息类型
type MessageType string

const (
	PredictionMessage MessageType = "prediction"
	ErrorMessage      MessageType = "error"
)

// socketFrame 每条回复对应客户端发送的一次表单状态
type socketFrame struct {
	Type       MessageType      `json:"type"`
	Prediction *predictResponse `json:"prediction,omitempty"`
	Error      *errorResponse   `json:"error,omitempty"`
}

// newUpgrader 按允许的来源校验握手请求。CORS中间件不会拦截普通GET，
// 因此来源检查必须在升级时完成
func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r, allowedOrigins)
		},
	}
}

// originAllowed 无Origin头的非浏览器客户端与同源页面始终放行
func originAllowed(r *http.Request, allowedOrigins []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// handlePredictSocket 对客户端发送的每个表单状态重新预测，页面随字段变化实时更新结果
func (h *Handler) handlePredictSocket(upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.servePredictSocket(upgrader, w, r)
	}
}

func (h *Handler) servePredictSocket(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.logger.With(zap.String("request_id", GetRequestID(r.Context())))
	log.Debug("websocket client connected")

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongWait))

		frame := h.socketReply(r, payload)
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			log.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) socketReply(r *http.Request, payload []byte) socketFrame {
	in, err := ml.DecodePassenger(bytes.NewReader(payload))
	if err != nil {
		_, body := decodeError(err)
		return socketFrame{Type: ErrorMessage, Error: &body}
	}
	prediction, err := h.predict(r, in)
	if err != nil {
		_, body := classifyError(err)
		return socketFrame{Type: ErrorMessage, Error: &body}
	}
	resp := newPredictResponse(prediction)
	return socketFrame{Type: PredictionMessage, Prediction: &resp}
}

// pingLoop 保持连接活跃。WriteControl可与其他写操作并发调用
func (h *Handler) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				return
			}
		}
	}
}
