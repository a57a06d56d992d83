package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the per-resource handlers.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	ProductAPI ProductAPI
	UserAPI    UserAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"PlaceOrder", http.MethodPost, "/order", handleFunctions.OrderAPI.PlaceOrder},
		{"GetOrder", http.MethodGet, "/order/:orderId", handleFunctions.OrderAPI.GetOrder},
		{"DeliverOrder", http.MethodPatch, "/order/:orderId/:customerId", handleFunctions.OrderAPI.DeliverOrder},
		{"CancelOrder", http.MethodPatch, "/order/cancel/:orderId/:customerId", handleFunctions.OrderAPI.CancelOrder},
		{"ReturnOrder", http.MethodPatch, "/order/return/:orderId/:customerId", handleFunctions.OrderAPI.ReturnOrder},

		{"AddProduct", http.MethodPost, "/product/:customerId", handleFunctions.ProductAPI.AddProduct},
		{"UpdateProduct", http.MethodPut, "/product/:customerId", handleFunctions.ProductAPI.UpdateProduct},
		{"GetProduct", http.MethodGet, "/product/:productCode", handleFunctions.ProductAPI.GetProduct},
		{"ListProducts", http.MethodGet, "/product", handleFunctions.ProductAPI.ListProducts},
		{"DeleteProduct", http.MethodDelete, "/product/:productCode/:customerId", handleFunctions.ProductAPI.DeleteProduct},
		{"AddStock", http.MethodPatch, "/product/:productCode/:quantity/:customerId", handleFunctions.ProductAPI.AddStock},

		{"CreateUser", http.MethodPost, "/user", handleFunctions.UserAPI.CreateUser},
		{"GetUser", http.MethodGet, "/user/:userId", handleFunctions.UserAPI.GetUser},
		{"ListUsers", http.MethodGet, "/user", handleFunctions.UserAPI.ListUsers},
	}
}
