package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/syncerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 20, 15, 4, 5, 0, time.UTC)

func newTestClient(url string, logger logging.Logger) *Client {
	ids := 0
	return NewClient(url, 5*time.Second, logger,
		WithIDGenerator(func() string {
			ids++
			return "generated-" + strconv.Itoa(ids)
		}),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// capture records POSTed envelopes.
type capture struct {
	mu          sync.Mutex
	envelopes   []map[string]json.RawMessage
	contentType string
}

func (c *capture) server(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&env))
		c.mu.Lock()
		c.envelopes = append(c.envelopes, env)
		c.contentType = r.Header.Get("Content-Type")
		c.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAll_NormalizesRows(t *testing.T) {
	body := `[
		{"id": 101, "descricao": "Aluguel", "valor": 1200, "data": "2024-03-01T03:00:00.000Z",
		 "categoria": "Moradia", "tipo": "Despesa", "status": "Pago", "frequencia": "Fixo"},
		{"ID": "202", "Descrição": "Mercado", "VALOR": "1.234,56", "Data": "15/03/2024",
		 "Tipo": "despesa", "Situação": "pendente"},
		{"descricao": "Freela", "montante": "R$ 50,00", "type": "income", "status": true},
		{"descricao": "Estorno", "valor": -30.5, "data": "2024-03-10", "tipo": "Investimento"},
		{"descricao": "Lixo", "valor": "abc", "data": "not a date"},
		"stray string",
		42
	]`
	srv := serveJSON(t, http.StatusOK, body)
	client := newTestClient(srv.URL, nil)

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	rent := records[0]
	assert.Equal(t, "101", rent.ID)
	assert.Equal(t, "Aluguel", rent.Description)
	assert.True(t, rent.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "2024-03-01", rent.Date)
	assert.Equal(t, "Moradia", rent.Category)
	assert.Equal(t, models.KindExpense, rent.Kind)
	assert.Equal(t, models.StatusPaid, rent.Status)
	assert.Equal(t, models.FrequencyFixed, rent.Frequency)

	market := records[1]
	assert.Equal(t, "202", market.ID)
	assert.True(t, market.Amount.Equal(decimal.RequireFromString("1234.56")), "got %s", market.Amount)
	assert.Equal(t, "2024-03-15", market.Date)
	assert.Equal(t, models.CategoryOther, market.Category)
	assert.Equal(t, models.StatusPending, market.Status)
	assert.Equal(t, models.FrequencySporadic, market.Frequency)

	freela := records[2]
	assert.Equal(t, "generated-1", freela.ID)
	assert.True(t, freela.Amount.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "2024-03-20", freela.Date)
	assert.Equal(t, models.KindIncome, freela.Kind)
	assert.Equal(t, models.StatusPaid, freela.Status)

	refund := records[3]
	assert.True(t, refund.Amount.Equal(decimal.RequireFromString("30.5")))
	assert.Equal(t, models.KindInvestment, refund.Kind)

	junk := records[4]
	assert.True(t, junk.Amount.IsZero())
	assert.Equal(t, "not", junk.Date)
	_, _, ok := junk.YearMonth()
	assert.False(t, ok)
}

func TestFetchAll_ThousandsOnlyAmounts(t *testing.T) {
	body := `[
		{"id": "1", "descricao": "Aluguel", "valor": "R$ 1.500", "data": "2024-03-01"},
		{"id": "2", "descricao": "Bônus", "valor": "2.000", "data": "2024-03-02"},
		{"id": "3", "descricao": "Carro", "valor": "R$ 1.500,00", "data": "2024-03-03"}
	]`
	srv := serveJSON(t, http.StatusOK, body)
	client := newTestClient(srv.URL, nil)

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(1500)), "got %s", records[0].Amount)
	assert.True(t, records[1].Amount.Equal(decimal.NewFromInt(2000)), "got %s", records[1].Amount)
	assert.True(t, records[2].Amount.Equal(decimal.NewFromInt(1500)), "got %s", records[2].Amount)
}

func TestNormalize_CollidingColumnsAreDeterministic(t *testing.T) {
	n := &normalizer{
		newID:  func() string { return "generated" },
		now:    func() time.Time { return fixedNow },
		logger: logging.NewMockLogger(),
	}

	tests := []struct {
		name string
		row  map[string]interface{}
		want string
	}{
		{
			name: "exact wire name beats other casing",
			row:  map[string]interface{}{"valor": json.Number("10"), "Valor": "R$ 7,00"},
			want: "10",
		},
		{
			name: "wire name beats synonym",
			row:  map[string]interface{}{"value": json.Number("3"), "valor": json.Number("10"), "amount": "R$ 9,00"},
			want: "10",
		},
		{
			name: "folded wire name beats synonym",
			row:  map[string]interface{}{"VALOR": "R$ 7,00", "montante": json.Number("3")},
			want: "7",
		},
		{
			name: "synonyms ordered by column name",
			row:  map[string]interface{}{"value": json.Number("3"), "amount": json.Number("4"), "quantia": json.Number("5")},
			want: "4",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				got := n.normalize(tc.row)
				require.True(t, got.Amount.Equal(decimal.RequireFromString(tc.want)),
					"iteration %d: got %s want %s", i, got.Amount, tc.want)
			}
		})
	}
}

func TestFetchAll_EmptyArray(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `[]`)
	records, err := newTestClient(srv.URL, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFetchAll_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-array body",
			status: http.StatusOK,
			body:   `{"error": "Script function not found"}`,
			check: func(t *testing.T, err error) {
				var payloadErr *syncerror.PayloadError
				require.True(t, errors.As(err, &payloadErr))
				assert.Equal(t, "expected a JSON array", payloadErr.Reason)
				assert.Contains(t, payloadErr.Snippet, "Script function")
			},
		},
		{
			name:   "html body",
			status: http.StatusOK,
			body:   `<!DOCTYPE html><html></html>`,
			check: func(t *testing.T, err error) {
				var payloadErr *syncerror.PayloadError
				assert.True(t, errors.As(err, &payloadErr))
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `[]`,
			check: func(t *testing.T, err error) {
				var statusErr *syncerror.StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body)
			records, err := newTestClient(srv.URL, nil).FetchAll(context.Background())
			require.Error(t, err)
			assert.Nil(t, records)
			tt.check(t, err)
		})
	}
}

func TestFetchAll_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, nil).FetchAll(context.Background())
	var transportErr *syncerror.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "fetch", transportErr.Op)
}

func TestNotConfigured(t *testing.T) {
	client := newTestClient("", nil)
	assert.False(t, client.Configured())

	_, err := client.FetchAll(context.Background())
	assert.ErrorIs(t, err, syncerror.ErrRemoteNotConfigured)

	d := client.SaveOne(context.Background(), models.Transaction{ID: "1"})
	assert.False(t, d.OK())
	assert.Equal(t, TransportFailed, d.Outcome)
	assert.ErrorIs(t, d.Err, syncerror.ErrRemoteNotConfigured)
}

func TestSaveOne_SendsEnvelope(t *testing.T) {
	var c capture
	srv := c.server(t, http.StatusOK)
	client := newTestClient(srv.URL, nil)

	record := models.Transaction{
		ID:          "123456",
		Description: "Aluguel",
		Amount:      decimal.NewFromInt(1200),
		Date:        "2024-03-01",
		Category:    "Moradia",
		Kind:        models.KindExpense,
		Status:      models.StatusPending,
		Frequency:   models.FrequencyFixed,
	}
	d := client.SaveOne(context.Background(), record)
	assert.True(t, d.OK())
	assert.NoError(t, d.Err)

	require.Len(t, c.envelopes, 1)
	assert.Equal(t, "text/plain;charset=utf-8", c.contentType)
	assert.JSONEq(t, `"save"`, string(c.envelopes[0]["action"]))
	assert.JSONEq(t, `{"id":"123456","descricao":"Aluguel","valor":1200,"data":"2024-03-01",
		"categoria":"Moradia","tipo":"Despesa","status":"Pendente","frequencia":"Fixo"}`,
		string(c.envelopes[0]["payload"]))
}

func TestDeleteOneAndSyncAll(t *testing.T) {
	var c capture
	srv := c.server(t, http.StatusOK)
	client := newTestClient(srv.URL, nil)

	assert.True(t, client.DeleteOne(context.Background(), "42").OK())
	assert.True(t, client.SyncAll(context.Background(), nil).OK())

	require.Len(t, c.envelopes, 2)
	assert.JSONEq(t, `"delete"`, string(c.envelopes[0]["action"]))
	assert.JSONEq(t, `{"id":"42"}`, string(c.envelopes[0]["payload"]))
	assert.JSONEq(t, `"syncAll"`, string(c.envelopes[1]["action"]))
	assert.JSONEq(t, `[]`, string(c.envelopes[1]["payload"]))
}

func TestWrite_StatusIsNotInspected(t *testing.T) {
	var c capture
	srv := c.server(t, http.StatusInternalServerError)
	logger := logging.NewMockLogger()

	d := newTestClient(srv.URL, logger).SaveOne(context.Background(), models.Transaction{ID: "1"})
	assert.True(t, d.OK(), "a dispatched request is reported as success whatever the status")
	assert.True(t, logger.HasEntry("DEBUG", "Remote write dispatched"))
}

func TestWrite_TransportErrorDoesNotEscape(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	logger := logging.NewMockLogger()
	client := newTestClient(url, logger)

	var d Dispatch
	assert.NotPanics(t, func() {
		d = client.SaveOne(context.Background(), models.Transaction{ID: "1"})
	})
	assert.False(t, d.OK())
	assert.Equal(t, "transport_error", d.Outcome.String())

	var transportErr *syncerror.TransportError
	require.True(t, errors.As(d.Err, &transportErr))
	assert.Equal(t, ActionSave, transportErr.Op)
	assert.True(t, logger.HasEntry("WARN", "Remote write failed"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "dispatched", Dispatched.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}
