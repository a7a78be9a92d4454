// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// ミドルウェアとサービス層から利用する。
type Recorder interface {
	RecordHTTPRequest(statusCode int, duration time.Duration)
	RecordUserRegistered()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordSavePersisted()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
	usersRegistered prometheus.Counter
	loginSuccess    prometheus.Counter
	loginFail       prometheus.Counter
	savesPersisted  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "memoria_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memoria_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memoria_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memoria_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		savesPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memoria_saves_total",
			Help: "保存されたゲームセッション記録の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.usersRegistered,
		c.loginSuccess,
		c.loginFail,
		c.savesPersisted,
	)

	return c
}

// RecordHTTPRequest はレスポンスのステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordSavePersisted はゲームセッション記録の保存を記録する。
func (c *Collector) RecordSavePersisted() {
	c.savesPersisted.Inc()
}

// Nop は何も記録しないRecorder。テストで使用する。
type Nop struct{}

func (Nop) RecordHTTPRequest(int, time.Duration) {}
func (Nop) RecordUserRegistered()                {}
func (Nop) RecordLoginSuccess()                  {}
func (Nop) RecordLoginFailure()                  {}
func (Nop) RecordSavePersisted()                 {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
