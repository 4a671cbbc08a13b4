package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/application/service"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCustomerRepo struct {
	byID map[uuid.UUID]*entity.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byID: map[uuid.UUID]*entity.Customer{}}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.byID[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.byID[id], nil
}

func (r *stubCustomerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	for _, c := range r.byID {
		if c.Phone != nil && *c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.byID[id].IsActive = active
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string, inactive bool) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.byID {
		if c.IsActive != inactive {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) RecordPurchase(context.Context, uuid.UUID, int64, time.Time) error {
	return nil
}

type stubSettingsRepo struct {
	saved *entity.CompanySettings
}

func (r *stubSettingsRepo) Get(context.Context) (*entity.CompanySettings, error) { return r.saved, nil }

func (r *stubSettingsRepo) Save(_ context.Context, s *entity.CompanySettings) error {
	r.saved = s
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func do(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestCustomerHandler(t *testing.T) {
	h := NewCustomerHandler(service.NewCustomerService(newStubCustomerRepo()))

	router := gin.New()
	router.GET("/customers", h.List)
	router.POST("/customers", h.Create)
	router.GET("/customers/phone/:phone", h.GetByPhone)
	router.GET("/customers/:id", h.Get)
	router.POST("/customers/:id/deactivate", h.Deactivate)

	w, env := do(t, router, http.MethodPost, "/customers",
		`{"name":" Joana Lima ","phone":"(11) 98888-7777","state":"sp","birth_date":"1990-04-12"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     uuid.UUID `json:"id"`
		Name   string    `json:"name"`
		Phone  string    `json:"phone"`
		State  string    `json:"state"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Joana Lima", created.Name)
	assert.Equal(t, "11988887777", created.Phone)
	assert.Equal(t, "SP", created.State)
	assert.Equal(t, "Active", created.Status)

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		w, _ := do(t, router, http.MethodPost, "/customers", `{"name":"Outra","phone":"11988887777"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("bad birth date", func(t *testing.T) {
		w, _ := do(t, router, http.MethodPost, "/customers", `{"name":"Rita","birth_date":"12/04/1990"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lookup by formatted phone", func(t *testing.T) {
		w, env := do(t, router, http.MethodGet, "/customers/phone/11-98888-7777", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), created.ID.String())
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		w, _ := do(t, router, http.MethodGet, "/customers/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, _ = do(t, router, http.MethodGet, "/customers/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deactivated customers move to the inactive list", func(t *testing.T) {
		w, _ := do(t, router, http.MethodPost, "/customers/"+created.ID.String()+"/deactivate", "")
		require.Equal(t, http.StatusOK, w.Code)

		_, active := do(t, router, http.MethodGet, "/customers", "")
		assert.NotContains(t, string(active.Data), created.ID.String())

		_, inactive := do(t, router, http.MethodGet, "/customers?inactive=true", "")
		assert.Contains(t, string(inactive.Data), created.ID.String())
	})
}

func TestSettingsHandler(t *testing.T) {
	repo := &stubSettingsRepo{}
	h := NewSettingsHandler(service.NewSettingsService(repo))

	router := gin.New()
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)

	w, env := do(t, router, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"PriMake"`)

	w, env = do(t, router, http.MethodPut, "/settings", `{"name":"PriMake Centro","cnpj":"123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, string(env.Errors), "cnpj")
	assert.Nil(t, repo.saved)

	w, _ = do(t, router, http.MethodPut, "/settings", `{"cnpj":"12.345.678/0001-90"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, router, http.MethodPut, "/settings", `{"name":"PriMake Centro","cnpj":"12.345.678/0001-90"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "PriMake Centro", repo.saved.Name)
}

func TestContextHelpers(t *testing.T) {
	userID := uuid.New()

	router := gin.New()
	router.GET("/whoami", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Set(ContextUserName, "Caio")
		c.Set(ContextUserRole, enum.RoleMotoboy)

		cv := commissionViewer(c)
		dv := deliveryViewer(c)
		params := pageParams(c, 15)

		c.JSON(http.StatusOK, gin.H{
			"commission_id":   cv.UserID,
			"commission_role": cv.Role,
			"delivery_name":   dv.Name,
			"page":            params.Page,
			"per_page":        params.PerPage,
		})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami?page=0&per_page=500", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, userID.String(), got["commission_id"])
	assert.Equal(t, "Motoboy", got["commission_role"])
	assert.Equal(t, "Caio", got["delivery_name"])
	assert.Equal(t, float64(1), got["page"])
	assert.Equal(t, float64(100), got["per_page"])

	t.Run("anonymous request", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.Nil(t, GetUserID(c))
		_, ok := GetUserRole(c)
		assert.False(t, ok)
	})
}

func TestSaleHandlerRequiresMethodOnEveryPart(t *testing.T) {
	// binding runs before the service, so no service dependencies are needed
	h := NewSaleHandler(&service.SaleService{})

	router := gin.New()
	router.POST("/sales", func(c *gin.Context) {
		c.Set(ContextUserID, uuid.New())
		c.Set(ContextUserRole, enum.RoleCaixa)
		c.Next()
	}, h.Complete)

	items := `"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}]`
	tests := []struct {
		name     string
		payments string
	}{
		{"part without method", `[{"amount":50},{"method":"pix"}]`},
		{"null method", `[{"method":null,"amount":50},{"method":"pix"}]`},
		{"unknown method", `[{"method":"cheque","amount":50}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, router, http.MethodPost, "/sales", `{`+items+`,"payments":`+tt.payments+`}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestUserHandlerRequiresRole(t *testing.T) {
	h := NewUserHandler(service.NewUserService(nil, nil))

	router := gin.New()
	router.POST("/users", h.Create)

	t.Run("missing role is not an administrator", func(t *testing.T) {
		w, env := do(t, router, http.MethodPost, "/users",
			`{"name":"Bia","email":"bia@primake.com","password":"secret1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Message, "Role")
	})

	t.Run("unknown role", func(t *testing.T) {
		w, _ := do(t, router, http.MethodPost, "/users",
			`{"name":"Bia","email":"bia@primake.com","password":"secret1","role":"Dono"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
