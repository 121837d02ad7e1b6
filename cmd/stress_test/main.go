package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/salmon-market/internal/adapter/storage"
	"github.com/rl1809/salmon-market/internal/core/domain"
	"github.com/rl1809/salmon-market/internal/core/service"
)

const (
	mysqlDSN       = "root:root@tcp(localhost:3306)/salmonmarket?parseTime=true"
	redisAddr      = "localhost:6379"
	customerID     = "CT-9999"
	orderCount     = 6000
	startingCredit = 200000
	timeBudget     = time.Second
)

func main() {
	ctx := context.Background()

	// Initialize MySQL
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	stateStore := storage.NewMySQLAdapter(db)
	sessionStore := storage.NewRedisAdapter(rdb)

	if err := stateStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Clear previous test data
	if err := stateStore.ClearState(ctx, customerID); err != nil {
		log.Fatalf("failed to clear state: %v", err)
	}
	if err := sessionStore.ClearCredit(ctx, customerID); err != nil {
		log.Fatalf("failed to clear credit: %v", err)
	}

	orderService := service.NewOrderService(domain.DefaultCatalog(), stateStore, sessionStore)

	if _, _, err := orderService.Login(ctx, customerID, startingCredit); err != nil {
		log.Fatalf("login failed: %v", err)
	}
	if _, err := orderService.GenerateOrders(ctx, customerID, orderCount); err != nil {
		log.Fatalf("failed to generate orders: %v", err)
	}

	start := time.Now()
	result, err := orderService.AssignOrders(ctx, customerID)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("assign orders failed: %v", err)
	}

	var success, failed int
	for _, o := range result.Orders {
		switch o.Status {
		case domain.OrderStatusSuccess:
			success++
		case domain.OrderStatusFailed:
			failed++
		}
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Orders Settled:   %d\n", len(result.Orders))
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", failed)
	fmt.Printf("Final Credit:     %s\n", domain.FormatCredit(result.Credit))
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success+failed == orderCount {
		fmt.Println("PASS: every pending order was settled")
	} else {
		fmt.Printf("FAIL: expected %d settled orders, got %d\n", orderCount, success+failed)
	}

	if elapsed < timeBudget {
		fmt.Printf("PASS: settlement finished under %v\n", timeBudget)
	} else {
		fmt.Printf("FAIL: settlement took %v, budget %v\n", elapsed, timeBudget)
	}
}
