package services

import (
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"

	"poolshop_server/store"
)

var startedAt = time.Now()

type serverHealthStatus struct {
	Uptime      float64   `json:"uptime"` // in seconds
	CurrentTime time.Time `json:"current_time"`
	GoVersion   string    `json:"go_version"`
	Goroutines  int       `json:"goroutines"`
	Memory      MemStats  `json:"memory"`
}

type MemStats struct {
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	SysMB       uint64 `json:"sys_mb"`
	NumGC       uint32 `json:"num_gc"`
}

type storeHealthStatus struct {
	Available      bool           `json:"available"`
	LastChecked    time.Time      `json:"last_checked"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	Entities       map[string]int `json:"entities"`
}

type HealthService struct {
	logger *gecho.Logger
	store  *store.Store
}

func NewHealthService(logger *gecho.Logger, st *store.Store) *HealthService {
	return &HealthService{
		logger: logger,
		store:  st,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return serverHealthStatus{
		Uptime:      time.Since(startedAt).Seconds(),
		CurrentTime: time.Now(),
		GoVersion:   runtime.Version(),
		Goroutines:  runtime.NumGoroutine(),
		Memory: MemStats{
			HeapAllocMB: m.HeapAlloc / 1024 / 1024,
			SysMB:       m.Sys / 1024 / 1024,
			NumGC:       m.NumGC,
		},
	}
}

// Past this the store is reported unavailable
const storeUnavailableAfter = 5 * time.Second

// GetStoreHealthStatus takes the read lock and counts entities. A slow
// answer means a writer is holding the lock.
func (hs *HealthService) GetStoreHealthStatus() storeHealthStatus {
	start := time.Now()
	entities := make(map[string]int)
	hs.store.Read(func(st *store.State) {
		entities["orders"] = len(st.Orders)
		entities["purchase_orders"] = len(st.PurchaseOrders)
		entities["invoices"] = len(st.Invoices)
		entities["suppliers"] = len(st.Suppliers)
		entities["products"] = len(st.Products)
		entities["categories"] = len(st.Categories)
		entities["templates"] = len(st.Templates)
		entities["notifications"] = len(st.Notifications)
	})
	elapsed := time.Since(start)

	if elapsed > time.Second {
		hs.logger.Warn("Store health check is slow", gecho.Field("duration", elapsed))
	}

	return storeHealthStatus{
		Available:      elapsed < storeUnavailableAfter,
		LastChecked:    time.Now(),
		ResponseTimeMs: elapsed.Milliseconds(),
		Entities:       entities,
	}
}
