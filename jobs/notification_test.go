package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/odyssey-erp/catalog/internal/jobs"
	"github.com/odyssey-erp/catalog/internal/notify"
	"github.com/odyssey-erp/catalog/internal/shared"
)

func TestNotificationJobDelivers(t *testing.T) {
	inbox := notify.NewInbox(0)
	job := NewNotificationJob(inbox, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewNotificationTask(shared.Success("Product deleted successfully!"))
	require.NoError(t, err)
	require.Equal(t, TaskTypeNotify, task.Type())

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []shared.Notification{shared.Success("Product deleted successfully!")}, inbox.Drain())
}

func TestNotificationJobRejectsBadPayload(t *testing.T) {
	inbox := notify.NewInbox(0)
	job := NewNotificationJob(inbox, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeNotify, []byte("{")))
	require.True(t, errors.Is(err, asynq.SkipRetry))

	err = job.Handle(context.Background(), asynq.NewTask(TaskTypeNotify, []byte(`{"kind":"success"}`)))
	require.True(t, errors.Is(err, asynq.SkipRetry))
	require.Empty(t, inbox.Drain())
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"}})
	require.Error(t, err)
}

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil).MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rr.Body.String())
}
