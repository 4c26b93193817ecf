package server

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fmsys/inventory-app/internal/engine"
	"github.com/fmsys/inventory-app/internal/handlers"
	"github.com/fmsys/inventory-app/internal/httpx"
	"github.com/fmsys/inventory-app/internal/services"
	"github.com/fmsys/inventory-app/internal/store"
)

// Options tune the router; zero values give sane defaults.
type Options struct {
	CORSOrigin string
	Logger     *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(db *gorm.DB, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	st := store.NewGormStore(db)
	eng := engine.New(st, log)
	supplierSvc := services.NewSupplierService(st)
	warrantySvc := services.NewWarrantyService(st)

	invH := handlers.NewInventoryHandler(eng, st)
	detH := handlers.NewDetailHandler(eng, st)
	supH := handlers.NewSupplierHandler(supplierSvc)
	warH := handlers.NewWarrantyHandler(warrantySvc)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Inventory overview
	mux.HandleFunc("/api/inventory", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			invH.List(w, r)
		case http.MethodPost:
			invH.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/api/inventory/edit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		invH.Update(w, r)
	})
	mux.HandleFunc("/api/inventory/", func(w http.ResponseWriter, r *http.Request) {
		itemNumber := strings.TrimPrefix(r.URL.Path, "/api/inventory/")
		if itemNumber == "" {
			httpx.Error(w, http.StatusBadRequest, "validation_error", "item number is required", nil)
			return
		}
		switch r.Method {
		case http.MethodPut:
			invH.AddPurchase(w, r, itemNumber)
		case http.MethodDelete:
			invH.Delete(w, r, itemNumber)
		default:
			methodNotAllowed(w, "PUT,DELETE")
		}
	})

	// Inventory details
	mux.HandleFunc("/api/inventory-details", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			detH.List(w, r)
		case http.MethodDelete:
			detH.Delete(w, r)
		default:
			methodNotAllowed(w, "GET,DELETE")
		}
	})
	mux.HandleFunc("/api/inventory-details/add", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, "POST")
			return
		}
		detH.Add(w, r)
	})
	mux.HandleFunc("/api/inventory-details/edit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		detH.Edit(w, r)
	})
	mux.HandleFunc("/api/inventory-details/sold", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		detH.ToggleSold(w, r)
	})

	// Suppliers
	mux.HandleFunc("/api/suppliers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			supH.List(w, r)
		case http.MethodPost:
			supH.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/api/suppliers/edit/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		supH.Rename(w, r, strings.TrimPrefix(r.URL.Path, "/api/suppliers/edit/"))
	})
	mux.HandleFunc("/api/suppliers/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, "DELETE")
			return
		}
		supH.Delete(w, r, strings.TrimPrefix(r.URL.Path, "/api/suppliers/"))
	})

	// Warranty
	mux.HandleFunc("/api/warranty", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			warH.List(w, r)
		case http.MethodPost:
			warH.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/api/warranty/edit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		warH.Edit(w, r)
	})
	mux.HandleFunc("/api/warranty/flags", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, "PUT")
			return
		}
		warH.ToggleFlag(w, r)
	})
	mux.HandleFunc("/api/warranty/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, "DELETE")
			return
		}
		warH.Delete(w, r, strings.TrimPrefix(r.URL.Path, "/api/warranty/"))
	})

	return withRecover(withLogging(withCORS(mux, opts.CORSOrigin), log), log)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.Error(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCORS answers browser preflights and stamps the allowed origin on
// every response. Empty origin disables the headers entirely.
func withCORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
