package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee-reimbursement/backend/internal/audit"
	auditrepo "employee-reimbursement/backend/internal/audit/repository"
	authhandler "employee-reimbursement/backend/internal/auth/handler"
	authservice "employee-reimbursement/backend/internal/auth/service"
	"employee-reimbursement/backend/internal/config"
	"employee-reimbursement/backend/internal/db"
	employeehandler "employee-reimbursement/backend/internal/employee/handler"
	employeerepo "employee-reimbursement/backend/internal/employee/repository"
	employeeservice "employee-reimbursement/backend/internal/employee/service"
	"employee-reimbursement/backend/internal/platform/authgate"
	"employee-reimbursement/backend/internal/policy/engine"
	"employee-reimbursement/backend/internal/server"
	"employee-reimbursement/backend/internal/server/middleware"
	sessionrepo "employee-reimbursement/backend/internal/session/repository"
	"employee-reimbursement/backend/internal/telemetry"
	teleotel "employee-reimbursement/backend/internal/telemetry/otel"
	tickethandler "employee-reimbursement/backend/internal/ticket/handler"
	ticketrepo "employee-reimbursement/backend/internal/ticket/repository"
	ticketservice "employee-reimbursement/backend/internal/ticket/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := teleotel.NewProviders(ctx, cfg.OTLPEndpoint, "reimburse-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	employees := employeerepo.NewPostgresRepository(conn)
	sessions := sessionrepo.NewPostgresRepository(conn)
	tickets := ticketrepo.NewPostgresRepository(conn)
	auditStore := auditrepo.NewPostgresRepository(conn)

	idleTTL := cfg.IdleTTL()
	auth := authservice.NewAuthService(employees, sessions, idleTTL)
	gate := authgate.New(auth)
	employeeSvc := employeeservice.NewEmployeeService(employees, gate)
	evaluator, err := engine.NewOPAEvaluator("")
	if err != nil {
		log.Fatalf("policy: %v", err)
	}
	ticketSvc := ticketservice.NewTicketService(tickets, employees, gate, evaluator)

	auditLogger := audit.NewLogger(auditStore, middleware.ClientIP)

	handler := server.NewHandler(server.Deps{
		Auth:      authhandler.NewAuthHandler(auth, auditLogger, idleTTL, cfg.CookieSecure),
		Employees: employeehandler.NewEmployeeHandler(employeeSvc, auth, idleTTL, cfg.CookieSecure),
		Tickets:   tickethandler.NewTicketHandler(ticketSvc, auth, idleTTL, cfg.CookieSecure),
		AuditRepo: auditStore,
		Emitter:   teleotel.NewEventEmitter(providers.LoggerProvider),
		DB:        conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async telemetry emits finish before tearing providers down.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
