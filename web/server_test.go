package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setupServer(t *testing.T) (*Server, *crm.Service) {
	t.Helper()
	kv, err := store.OpenMemory()
	require.NoError(t, err)
	svc, err := crm.Open(kv, crm.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return NewServer(svc, log.New(io.Discard)), svc
}

func seed(t *testing.T, svc *crm.Service) models.Customer {
	t.Helper()
	c, err := svc.CreateCustomer(models.Customer{Name: "Sara", Phone: "0100", Type: models.CustomerPotential})
	require.NoError(t, err)
	_, err = svc.CreateDeal(models.Deal{Title: "Website", CustomerID: c.ID, Value: 1000, Probability: 50, ExpectedCloseDate: testNow.AddDate(0, 1, 0)})
	require.NoError(t, err)
	_, err = svc.CreateDeal(models.Deal{Title: "Hosting", CustomerID: c.ID, Value: 200, Status: models.DealRejected, RejectionReason: "price", ExpectedCloseDate: testNow})
	require.NoError(t, err)
	_, err = svc.CreateTask(models.Task{Title: "Call back", CustomerID: c.ID, DueDate: testNow.Add(30 * time.Minute)})
	require.NoError(t, err)
	_, err = svc.CreateTask(models.Task{Title: "Later", DueDate: testNow.Add(48 * time.Hour)})
	require.NoError(t, err)
	return c
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["customers"])
	assert.EqualValues(t, 2, body["deals"])
}

func TestCustomersFilterAcceptsArabicType(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/customers?type=%D9%85%D8%AD%D8%AA%D9%85%D9%84", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var customers []models.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	assert.Len(t, customers, 1)

	rec = do(t, s, http.MethodGet, "/api/customers?type=permanent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/customers?type=vip", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerDetail(t *testing.T) {
	s, svc := setupServer(t)
	c := seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/customers/"+c.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Customer models.Customer `json:"customer"`
		Deals    []models.Deal   `json:"deals"`
		Tasks    []models.Task   `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Sara", body.Customer.Name)
	assert.Len(t, body.Deals, 2)
	assert.Len(t, body.Tasks, 1)

	rec = do(t, s, http.MethodGet, "/api/customers/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPipeline(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/pipeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body pipelineBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.Rejected)
	assert.InDelta(t, 500, body.WeightedValue, 0.001)
	require.Len(t, body.Rejections, 1)
	assert.Equal(t, crm.ReasonCount{Reason: "price", Count: 1}, body.Rejections[0])
}

func TestNotificationsWindow(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call back", tasks[0].Title)

	rec = do(t, s, http.MethodGet, "/api/notifications?window=72h", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2)

	rec = do(t, s, http.MethodGet, "/api/notifications?window=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/report?from=2024-05-01&to=2024-05-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		NewCustomers int `json:"newCustomers"`
		Deals        int `json:"deals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.NewCustomers)
	assert.Equal(t, 2, body.Deals)

	rec = do(t, s, http.MethodGet, "/api/report?format=text", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "العملاء الجدد")

	rec = do(t, s, http.MethodGet, "/api/report?from=2024-05-31&to=2024-05-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupRoundTrip(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc)

	rec := do(t, s, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "crm-backup-2024-05-10.json")
	exported := rec.Body.String()

	other, otherSvc := setupServer(t)
	rec = do(t, other, http.MethodPost, "/api/backup", strings.NewReader(exported))
	require.Equal(t, http.StatusOK, rec.Code)
	var body importBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Replaced, 6)
	assert.Len(t, otherSvc.Customers(crm.CustomerFilter{}), 1)
	assert.Len(t, otherSvc.Deals(crm.DealFilter{}), 2)

	rec = do(t, other, http.MethodPost, "/api/backup", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, otherSvc.Customers(crm.CustomerFilter{}), 1)
}

func TestMetricsExposeRequestsAndRecords(t *testing.T) {
	s, svc := setupServer(t)
	c := seed(t, svc)

	do(t, s, http.MethodGet, "/api/customers/"+c.ID, nil)
	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `amil_http_requests_total{method="GET",path="/api/customers/{id}",status="200"} 1`)
	assert.Contains(t, body, `amil_records{kind="customers"} 1`)
	assert.Contains(t, body, `amil_tasks_open 2`)
}

func TestUnknownMethod(t *testing.T) {
	s, _ := setupServer(t)
	rec := do(t, s, http.MethodDelete, "/api/customers", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
