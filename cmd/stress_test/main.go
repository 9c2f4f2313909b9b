package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/adapter/storage"
	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/core/service"
	"github.com/rl1809/order-service/internal/logger"
)

type store interface {
	CreateCustomer(ctx context.Context, c domain.Customer) error
	CreateProduct(ctx context.Context, p domain.Product) error
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

func main() {
	backend := flag.String("store", "memory", "memory or mysql")
	dsn := flag.String("dsn", "root:root@tcp(localhost:3306)/orders?parseTime=true", "MySQL DSN for -store=mysql")
	initialStock := flag.Int("stock", 20, "initial stock of the contended product")
	totalRequests := flag.Int("requests", 50, "concurrent single-unit placements")
	flag.Parse()

	log, err := logger.New(logger.Options{Level: "warn"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	var (
		orderService *service.OrderService
		repo         store
	)
	switch *backend {
	case "memory":
		mem := storage.NewMemoryAdapter()
		orderService = service.NewOrderService(mem, mem, mem, service.NewStockGuard(mem, 3, log), service.WithLogger(log))
		repo = mem
	case "mysql":
		db, err := sql.Open("mysql", *dsn)
		if err != nil {
			log.Fatal("failed to open mysql", zap.Error(err))
		}
		defer db.Close()
		db.SetMaxOpenConns(50)

		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.Migrate(ctx); err != nil {
			log.Fatal("failed to migrate", zap.Error(err))
		}
		orderService = service.NewOrderService(mysqlAdapter, mysqlAdapter, mysqlAdapter,
			service.NewStockGuard(mysqlAdapter, 3, log), service.WithLogger(log))
		repo = mysqlAdapter
	default:
		log.Fatal("unknown store", zap.String("store", *backend))
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	run := uuid.NewString()[:8]

	customer := domain.Customer{
		ID:        uuid.NewString(),
		FirstName: "Stress",
		LastName:  "Test",
		Email:     "stress-" + run + "@example.com",
		Phone:     "000",
		CreatedAt: now,
	}
	product := domain.Product{
		ID:            uuid.NewString(),
		Name:          "Flash Sale Item " + run,
		Price:         decimal.RequireFromString("9.99"),
		Category:      "stress",
		SKU:           "STRESS-" + run,
		StockQuantity: *initialStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.CreateCustomer(ctx, customer); err != nil {
		log.Fatal("failed to seed customer", zap.Error(err))
	}
	if err := repo.CreateProduct(ctx, product); err != nil {
		log.Fatal("failed to seed product", zap.Error(err))
	}

	var successCount, soldOutCount, errorCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := orderService.PlaceOrder(ctx, domain.PlaceOrderRequest{
				CustomerID: customer.ID,
				Items:      []domain.LineRequest{{ProductID: product.ID, Quantity: 1}},
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				soldOutCount.Add(1)
			default:
				errorCount.Add(1)
				log.Error("placement failed", zap.Error(err))
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := int(successCount.Load())
	soldOut := int(soldOutCount.Load())
	expected := min(*initialStock, *totalRequests)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Store:            %s\n", *backend)
	fmt.Printf("Initial Stock:    %d\n", *initialStock)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold Out:         %d\n", soldOut)
	fmt.Printf("Errors:           %d\n", errorCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	failed := false
	if success == expected && soldOut == *totalRequests-expected {
		fmt.Printf("PASS: Exactly %d orders succeeded, %d sold out\n", success, soldOut)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d sold out, got %d/%d\n",
			expected, *totalRequests-expected, success, soldOut)
		failed = true
	}

	final, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		log.Fatal("failed to read final stock", zap.Error(err))
	}
	fmt.Printf("Final Stock:      %d\n", final.StockQuantity)

	if final.StockQuantity == *initialStock-expected {
		fmt.Println("PASS: Stock matches successful orders")
	} else {
		fmt.Printf("FAIL: Expected stock %d, got %d\n", *initialStock-expected, final.StockQuantity)
		failed = true
	}

	if failed {
		os.Exit(1)
	}
}
