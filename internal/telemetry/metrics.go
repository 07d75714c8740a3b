/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fan-out is best-effort on two of its three channels, so counters are the
// only way operators see how deliveries actually behave.
var (
	RealtimeEmits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanout_realtime_emits_total",
		Help: "Realtime event emissions by outcome.",
	}, []string{"outcome"})

	InboxAppends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fanout_inbox_appends_total",
		Help: "Notification entries durably appended to inboxes.",
	})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanout_push_deliveries_total",
		Help: "Offline-push delivery attempts by outcome.",
	}, []string{"outcome"})
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Handler exposes the prometheus registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
