package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qualitydesk/qualens/internal/contract"
)

// shutdownTimeout bounds how long in-flight requests may run during shutdown.
const shutdownTimeout = 10 * time.Second

// SetupRoutes wires the catalog handler into a gin engine.
func SetupRoutes(handler *CatalogHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handler.Health)

	v1 := r.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/:id", handler.GetProduct)
		}
		v1.GET("/kpis", handler.GetKPIs)
	}

	return r
}

// Serve runs the HTTP read API until the context is canceled or a
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func Serve(ctx context.Context, reader contract.CatalogReader, port int) error {
	engine := SetupRoutes(NewCatalogHandler(reader))

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Serving catalog API on %s\n", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	case err := <-serverErrChan:
		return fmt.Errorf("http server error: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Shutting down catalog API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown error: %w", err)
	}

	return nil
}
