//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/go-gin-shop-server/test/pact"

	shopserver "github.com/Apurer/go-gin-shop-server/go"
	catalogmemory "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	ordermemory "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/go-gin-shop-server/internal/domains/orders/application"
	usermemory "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/go-gin-shop-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	platformmemory "github.com/Apurer/go-gin-shop-server/internal/platform/memory"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestShopProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogSeeded: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds the whole in-memory stack on reset so the ids
// handed out while seeding are always the same.
type contractProviderApp struct {
	mu       sync.RWMutex
	router   http.Handler
	users    *usermemory.Repository
	products *catalogmemory.Repository
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	store := platformmemory.NewStore()
	users := usermemory.NewRepository(store)
	products := catalogmemory.NewRepository(store)
	gatekeeper := userapp.NewGatekeeper(users)

	orderService := orderobs.New(orderapp.NewService(ordermemory.NewRepository(store), products, gatekeeper, store,
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore())))
	handlers := shopserver.ApiHandleFunctions{
		OrderAPI:   shopserver.NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService)),
		ProductAPI: shopserver.NewProductAPI(catalogobs.New(catalogapp.NewService(products, gatekeeper, store))),
		UserAPI:    shopserver.NewUserAPI(userobs.New(userapp.NewService(users))),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = shopserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.router = router
	a.users = users
	a.products = products
}

func (a *contractProviderApp) seedCatalog(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	a.mu.RLock()
	users, products := a.users, a.products
	a.mu.RUnlock()

	admin, err := userdomain.NewUser(0, "pact-admin", userdomain.RoleAdmin)
	require.NoError(t, err)
	saved, err := users.Save(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, pacttest.SeededAdminID, saved.ID)

	client, err := userdomain.NewUser(0, "pact-client", userdomain.RoleClient)
	require.NoError(t, err)
	saved, err = users.Save(ctx, client)
	require.NoError(t, err)
	require.Equal(t, pacttest.SeededClientID, saved.ID)

	price, err := decimal.NewFromString(pacttest.ExamplePrice())
	require.NoError(t, err)
	product, err := catalogdomain.NewProduct(pacttest.SeededCode, price, catalogdomain.CurrencyRON, "", pacttest.SeededStock)
	require.NoError(t, err)
	stored, err := products.Save(ctx, product)
	require.NoError(t, err)
	require.Equal(t, pacttest.SeededProductID, stored.ID)
}
