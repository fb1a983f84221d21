package httpserver

import (
	"context"
	"errors"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/domain"
	addresssvc "cleaning-crm/internal/service/address"
	customersvc "cleaning-crm/internal/service/customer"
	employeesvc "cleaning-crm/internal/service/employee"
	ordersvc "cleaning-crm/internal/service/order"
	usersvc "cleaning-crm/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenParser verifies bearer tokens of one audience.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Authorizer decides staff permissions.
type Authorizer interface {
	Allowed(role domain.Role, obj, act string) (bool, error)
}

// CustomerService handles customer accounts.
type CustomerService interface {
	Register(ctx context.Context, in customersvc.RegisterInput) (*customersvc.Session, error)
	Login(ctx context.Context, username, password string) (*customersvc.Session, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
}

// OrderService runs the cleaning order workflows.
type OrderService interface {
	CreateForCustomer(ctx context.Context, requester *domain.Customer, in ordersvc.CustomerCreateInput) (*domain.OrderWithAddress, error)
	CreateForCRM(ctx context.Context, in ordersvc.CRMCreateInput) (*domain.OrderWithAddress, error)
	UpdateForCustomer(ctx context.Context, customerID, id string, in ordersvc.CustomerUpdateInput) (*domain.OrderWithAddress, error)
	UpdateForCRM(ctx context.Context, id string, in ordersvc.CRMUpdateInput) (*domain.OrderWithAddress, error)
	Get(ctx context.Context, id string) (*domain.OrderWithAddress, error)
	GetForCustomer(ctx context.Context, customerID, id string) (*domain.OrderWithAddress, error)
	ListForCustomer(ctx context.Context, customerID string, page, limit int) (*domain.Page[domain.OrderWithAddress], error)
	ListForCRM(ctx context.Context, f ordersvc.CRMFilter, page, limit int) (*domain.Page[domain.OrderWithAddress], error)
	Delete(ctx context.Context, id string) error
}

// AddressService manages customer addresses.
type AddressService interface {
	Create(ctx context.Context, customerID string, in addresssvc.Input) (*domain.Address, error)
	Get(ctx context.Context, customerID, addressID string) (*domain.Address, error)
	Update(ctx context.Context, customerID, addressID string, in addresssvc.UpdateInput) (*domain.Address, error)
	List(ctx context.Context, customerID string, page, limit int) (*addresssvc.ListResult, error)
	SetDefault(ctx context.Context, customerID, addressID string) error
}

// UserService manages CRM staff.
type UserService interface {
	Login(ctx context.Context, email, password string) (*usersvc.Session, error)
	Create(ctx context.Context, in usersvc.CreateInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, page, limit int) (*domain.Page[domain.User], error)
	Update(ctx context.Context, actor usersvc.Actor, id string, in usersvc.UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeService manages employees and work schedules.
type EmployeeService interface {
	Create(ctx context.Context, in employeesvc.Input) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, page, limit int) (*domain.Page[domain.Employee], error)
	Update(ctx context.Context, id string, in employeesvc.UpdateInput) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	CreateSchedule(ctx context.Context, in employeesvc.ScheduleCreateInput) (*domain.WorkSchedule, error)
	GetSchedule(ctx context.Context, id string) (*domain.WorkSchedule, error)
	ListSchedules(ctx context.Context, employeeID *string, page, limit int) (*domain.Page[domain.WorkSchedule], error)
	UpdateSchedule(ctx context.Context, id string, in employeesvc.ScheduleUpdateInput) (*domain.WorkSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// Deps bundles the services and auth collaborators behind the routes.
type Deps struct {
	CustomerTokens TokenParser
	StaffTokens    TokenParser
	Authorizer     Authorizer
	Customers      CustomerService
	Orders         OrderService
	Addresses      AddressService
	Users          UserService
	Employees      EmployeeService
	CORSOrigins    []string
}

func (d Deps) validate() error {
	switch {
	case d.CustomerTokens == nil || d.StaffTokens == nil:
		return errors.New("httpserver: token parsers are required")
	case d.Authorizer == nil:
		return errors.New("httpserver: authorizer is required")
	case d.Customers == nil || d.Orders == nil || d.Addresses == nil || d.Users == nil || d.Employees == nil:
		return errors.New("httpserver: all services are required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger), cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}
	api := router.Group("/api")

	customer := api.Group("/customer")
	customer.POST("/register", h.registerCustomer)
	customer.POST("/login", h.loginCustomer)

	orders := api.Group("/cleaning-orders")
	orders.POST("", optionalCustomer(deps.CustomerTokens, deps.Customers, logger), h.createCustomerOrder)
	ownOrders := orders.Group("/:customerId", requireCustomer(deps.CustomerTokens), sameCustomer())
	ownOrders.GET("", h.listCustomerOrders)
	ownOrders.GET("/:cleaningOrderId", h.getCustomerOrder)
	ownOrders.PUT("/:cleaningOrderId", h.updateCustomerOrder)

	addresses := api.Group("/address/:customerId", requireCustomer(deps.CustomerTokens), sameCustomer())
	addresses.POST("", h.createAddress)
	addresses.GET("", h.listAddresses)
	addresses.GET("/:addressId", h.getAddress)
	addresses.PUT("/:addressId", h.updateAddress)
	addresses.PUT("/:addressId/default", h.setDefaultAddress)

	api.POST("/crm/users/login", h.loginUser)
	crm := api.Group("/crm", requireStaff(deps.StaffTokens))
	can := func(obj, act string) gin.HandlerFunc {
		return requirePermission(deps.Authorizer, logger, obj, act)
	}

	users := crm.Group("/users")
	users.POST("", can(auth.ResourceUsers, auth.ActionWrite), h.createUser)
	users.GET("", can(auth.ResourceUsers, auth.ActionRead), h.listUsers)
	users.GET("/:id", can(auth.ResourceUsers, auth.ActionRead), h.getUser)
	users.PUT("/:id", h.updateUser)
	users.DELETE("/:id", can(auth.ResourceUsers, auth.ActionWrite), h.deleteUser)

	employees := crm.Group("/employees")
	employees.POST("", can(auth.ResourceEmployees, auth.ActionWrite), h.createEmployee)
	employees.GET("", can(auth.ResourceEmployees, auth.ActionRead), h.listEmployees)
	employees.GET("/:id", can(auth.ResourceEmployees, auth.ActionRead), h.getEmployee)
	employees.PUT("/:id", can(auth.ResourceEmployees, auth.ActionWrite), h.updateEmployee)
	employees.DELETE("/:id", can(auth.ResourceEmployees, auth.ActionWrite), h.deleteEmployee)

	schedules := crm.Group("/work-schedules")
	schedules.POST("", can(auth.ResourceSchedules, auth.ActionWrite), h.createSchedule)
	schedules.GET("", can(auth.ResourceSchedules, auth.ActionRead), h.listSchedules)
	schedules.GET("/:id", can(auth.ResourceSchedules, auth.ActionRead), h.getSchedule)
	schedules.PUT("/:id", can(auth.ResourceSchedules, auth.ActionWrite), h.updateSchedule)
	schedules.DELETE("/:id", can(auth.ResourceSchedules, auth.ActionWrite), h.deleteSchedule)

	crmOrders := crm.Group("/cleaning-orders")
	crmOrders.POST("", can(auth.ResourceOrders, auth.ActionWrite), h.createCRMOrder)
	crmOrders.GET("", can(auth.ResourceOrders, auth.ActionRead), h.listCRMOrders)
	crmOrders.GET("/:id", can(auth.ResourceOrders, auth.ActionRead), h.getCRMOrder)
	crmOrders.PUT("/:id", can(auth.ResourceOrders, auth.ActionWrite), h.updateCRMOrder)
	crmOrders.DELETE("/:id", can(auth.ResourceOrders, auth.ActionWrite), h.deleteCRMOrder)

	crmAddresses := crm.Group("/addresses/:customerId")
	crmAddresses.POST("", can(auth.ResourceAddresses, auth.ActionWrite), h.createAddress)
	crmAddresses.GET("", can(auth.ResourceAddresses, auth.ActionRead), h.listAddresses)
	crmAddresses.GET("/:addressId", can(auth.ResourceAddresses, auth.ActionRead), h.getAddress)
	crmAddresses.PUT("/:addressId", can(auth.ResourceAddresses, auth.ActionWrite), h.updateAddress)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
