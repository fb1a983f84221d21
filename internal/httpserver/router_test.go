package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/db/dbtest"
	"cleaning-crm/internal/domain"
	addressrepo "cleaning-crm/internal/repository/address"
	customerrepo "cleaning-crm/internal/repository/customer"
	employeerepo "cleaning-crm/internal/repository/employee"
	orderrepo "cleaning-crm/internal/repository/order"
	userrepo "cleaning-crm/internal/repository/user"
	addresssvc "cleaning-crm/internal/service/address"
	customersvc "cleaning-crm/internal/service/customer"
	employeesvc "cleaning-crm/internal/service/employee"
	ordersvc "cleaning-crm/internal/service/order"
	usersvc "cleaning-crm/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	router *gin.Engine
	users  *usersvc.Service
	staff  *auth.TokenManager
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	addresses := addressrepo.NewMemory()
	orders := orderrepo.NewMemory()
	customers := customerrepo.NewMemory()
	users := userrepo.NewMemory()
	employees := employeerepo.NewMemory()
	fake := dbtest.New(addresses, orders, customers, users, employees)

	customerTokens := auth.NewTokenManager("customer-secret", auth.AudienceCustomer, time.Hour)
	staffTokens := auth.NewTokenManager("staff-secret", auth.AudienceStaff, time.Hour)
	authz, err := auth.NewAuthorizer()
	require.NoError(t, err)

	addressSvc := addresssvc.New(fake, addresses, orders)
	userSvc := usersvc.New(fake, users, staffTokens)
	router, err := buildRouter(zap.NewNop(), stubPinger{}, Deps{
		CustomerTokens: customerTokens,
		StaffTokens:    staffTokens,
		Authorizer:     authz,
		Customers:      customersvc.New(fake, customers, customerTokens),
		Orders:         ordersvc.New(fake, orders, addresses, customers, addressSvc),
		Addresses:      addressSvc,
		Users:          userSvc,
		Employees:      employeesvc.New(fake, employees),
	})
	require.NoError(t, err)
	return testEnv{router: router, users: userSvc, staff: staffTokens}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) staffToken(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	u, err := e.users.Create(context.Background(), usersvc.CreateInput{Name: "Staff", Email: email, Password: "password1", Role: role})
	require.NoError(t, err)
	token, err := e.staff.Issue(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func guestOrderBody() map[string]any {
	return map[string]any{
		"guestCustomer": map[string]any{"name": "Jo", "lastname": "Doe", "phone": "+15551234567"},
		"address":       map[string]any{"street": "1 Main St", "city": "X", "country": "Y", "postalCode": "00000"},
		"orderDetails": map[string]any{
			"rooms":   map[string]any{"livingRoom": 1, "kitchen": 0, "bathroom": 0, "bedroom": 0, "squareMeters": 30},
			"balcony": map[string]any{"squareMeters": 0},
		},
		"serviceOptions": map[string]any{"microwave": true},
		"paymentMethod":  "CASH",
		"serviceType":    "REGULAR_CLEANING",
		"occurance":      "ONE_TIME",
		"startTime":      time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", "", nil).Code)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", readyHandler(stubPinger{err: errors.New("down")}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGuestOrder_Created(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/cleaning-orders", "", guestOrderBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "PENDING", body["orderStatus"])
	assert.Equal(t, "PENDING", body["paymentStatus"])
	assert.Equal(t, float64(0), body["price"])
	assert.NotContains(t, body, "orderDetails")
	assert.NotContains(t, body, "assignedEmployees")

	opts := body["serviceOptions"].(map[string]any)
	assert.Len(t, opts, 11)
	for name, v := range opts {
		assert.Equal(t, name == "microwave", v, name)
	}
	addr := body["address"].(map[string]any)
	assert.Equal(t, "1 Main St", addr["street"])
}

func TestGuestOrder_AddressSources(t *testing.T) {
	env := newTestEnv(t)

	both := guestOrderBody()
	both["addressId"] = "ADDRESS-1"
	rec := env.do(t, http.MethodPost, "/api/cleaning-orders", "", both)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "not both")

	neither := guestOrderBody()
	delete(neither, "address")
	rec = env.do(t, http.MethodPost, "/api/cleaning-orders", "", neither)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_InvalidTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/cleaning-orders", "garbage", guestOrderBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/cleaning-orders", "", `{"startTime":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "invalid request body")
}

func registerCustomer(t *testing.T, env testEnv, username, phone string) (id, token string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/customer/register", "", map[string]any{
		"username": username,
		"name":     "Reg",
		"lastname": "Istered",
		"phone":    phone,
		"password": "Abcdefg1!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	cust := body["customer"].(map[string]any)
	assert.NotContains(t, cust, "passwordHash")
	return cust["id"].(string), body["token"].(string)
}

func TestCustomerFlow(t *testing.T) {
	env := newTestEnv(t)
	id, token := registerCustomer(t, env, "reg", "+15550000001")
	otherID, _ := registerCustomer(t, env, "other", "+15550000002")

	rec := env.do(t, http.MethodPost, "/api/customer/login", "", map[string]any{"username": "reg", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/customer/login", "", map[string]any{"username": "reg", "password": "Abcdefg1!"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := guestOrderBody()
	delete(body, "guestCustomer")
	rec = env.do(t, http.MethodPost, "/api/cleaning-orders", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)
	assert.Equal(t, "Reg", order["customerName"])

	rec = env.do(t, http.MethodGet, "/api/cleaning-orders/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(0), page["page"])
	assert.Equal(t, float64(10), page["limit"])

	rec = env.do(t, http.MethodPut, "/api/cleaning-orders/"+id+"/"+order["id"].(string), token, map[string]any{"comment": "ring twice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ring twice", decode(t, rec)["comment"])

	rec = env.do(t, http.MethodGet, "/api/cleaning-orders/"+otherID, token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/cleaning-orders/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerAddresses(t *testing.T) {
	env := newTestEnv(t)
	id, token := registerCustomer(t, env, "addr", "+15550000003")
	base := "/api/address/" + id

	rec := env.do(t, http.MethodPost, base, token, map[string]any{
		"street": "1 Main St", "city": "X", "country": "Y", "postalCode": "00000", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode(t, rec)
	assert.Equal(t, true, first["isDefault"])

	rec = env.do(t, http.MethodPost, base, token, map[string]any{
		"street": "2 Side St", "city": "X", "country": "Y", "postalCode": "00000",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode(t, rec)

	rec = env.do(t, http.MethodPut, base+"/"+second["id"].(string)+"/default", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)
	def := list["defaultAddress"].(map[string]any)
	assert.Equal(t, second["id"], def["id"])
	assert.Equal(t, float64(2), list["paginationResult"].(map[string]any)["total"])

	rec = env.do(t, http.MethodPost, base, token, map[string]any{"city": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCRM_Authorization(t *testing.T) {
	env := newTestEnv(t)
	admin := env.staffToken(t, "admin@example.com", domain.RoleAdmin)
	user := env.staffToken(t, "user@example.com", domain.RoleUser)

	crmBody := guestOrderBody()
	delete(crmBody, "guestCustomer")
	crmBody["customerName"] = "Jo"
	crmBody["customerLastname"] = "Doe"
	crmBody["customerPhone"] = "+15551234567"
	crmBody["price"] = 120.5

	rec := env.do(t, http.MethodPost, "/api/crm/cleaning-orders", "", crmBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/crm/cleaning-orders", user, crmBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/crm/cleaning-orders", admin, crmBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)
	assert.Equal(t, 120.5, order["price"])
	assert.Contains(t, order, "orderDetails")
	assert.Equal(t, []any{}, order["assignedEmployees"])

	rec = env.do(t, http.MethodGet, "/api/crm/cleaning-orders?sortField=price&sortOrder=asc", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["total"])

	rec = env.do(t, http.MethodGet, "/api/crm/cleaning-orders?sortField=nope", user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/crm/cleaning-orders?sortOrder=sideways", user, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/crm/cleaning-orders/"+order["id"].(string), admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/crm/cleaning-orders/"+order["id"].(string), admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCRM_RejectsCustomerTokens(t *testing.T) {
	env := newTestEnv(t)
	_, token := registerCustomer(t, env, "sneaky", "+15550000004")
	rec := env.do(t, http.MethodGet, "/api/crm/cleaning-orders", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCRM_Users(t *testing.T) {
	env := newTestEnv(t)
	admin := env.staffToken(t, "admin@example.com", domain.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/crm/users/login", "", map[string]any{"email": "admin@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["token"])

	rec = env.do(t, http.MethodPost, "/api/crm/users", admin, map[string]any{
		"name": "Bob", "email": "bob@example.com", "password": "password1", "role": "USER",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bob := decode(t, rec)
	bobID := bob["id"].(string)

	rec = env.do(t, http.MethodPost, "/api/crm/users/login", "", map[string]any{"email": "bob@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	bobToken := decode(t, rec)["token"].(string)

	rec = env.do(t, http.MethodPut, "/api/crm/users/"+bobID, bobToken, map[string]any{"role": "ADMIN"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodPut, "/api/crm/users/"+bobID, bobToken, map[string]any{"name": "Robert"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Robert", decode(t, rec)["name"])

	rec = env.do(t, http.MethodDelete, "/api/crm/users/"+bobID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/crm/users/"+bobID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCRM_EmployeesAndSchedules(t *testing.T) {
	env := newTestEnv(t)
	admin := env.staffToken(t, "admin@example.com", domain.RoleAdmin)
	user := env.staffToken(t, "user@example.com", domain.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/crm/employees", admin, map[string]any{
		"name": "Ana", "phone": "+15551112222", "salary": 1000,
		"schedules": []any{map[string]any{"workday": "MONDAY", "workStartTime": "08:00", "workEndTime": "16:00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	emp := decode(t, rec)
	empID := emp["id"].(string)
	assert.Len(t, emp["schedules"], 1)

	rec = env.do(t, http.MethodPost, "/api/crm/work-schedules", user, map[string]any{
		"employeeId": empID, "workday": "TUESDAY", "workStartTime": "08:00", "workEndTime": "16:00",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/crm/work-schedules", admin, map[string]any{
		"employeeId": empID, "workday": "TUESDAY", "workStartTime": "08:00", "workEndTime": "16:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/crm/work-schedules?employeeId="+empID, user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["total"])

	rec = env.do(t, http.MethodGet, "/api/crm/employees/"+empID, user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["schedules"], 2)

	rec = env.do(t, http.MethodGet, "/api/crm/employees?page=922337203685477580", user, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode(t, rec)
	assert.Equal(t, float64(1), page["total"])
	assert.Empty(t, page["data"])
}

func TestPageParams_Clamp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 0, 10},
		{"?page=2&limit=5", 2, 5},
		{"?page=-3&limit=0", 0, 10},
		{"?page=x&limit=500", 0, 100},
		{"?page=922337203685477580&limit=100", maxPage, 100},
		{"?page=99999999999999999999", 0, 10},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		page, limit := pageParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.Validation("bad input"), http.StatusBadRequest, "bad input"},
		{domain.Conflict("in use"), http.StatusBadRequest, "in use"},
		{domain.NotFound("missing"), http.StatusNotFound, "missing"},
		{domain.Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, zap.NewNop(), tc.err)
		assert.Equal(t, tc.status, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), tc.msg), rec.Body.String())
	}
}

func TestBuildRouter_RequiresDeps(t *testing.T) {
	_, err := buildRouter(zap.NewNop(), nil, Deps{})
	assert.Error(t, err)
}
