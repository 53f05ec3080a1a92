package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hrms-payroll/internal/attendance"
	"hrms-payroll/internal/employee"
	"hrms-payroll/internal/events"
	"hrms-payroll/internal/holiday"
	"hrms-payroll/internal/investment"
	"hrms-payroll/internal/leave"
	"hrms-payroll/internal/messaging/kafka"
	"hrms-payroll/internal/messaging/kafka/consumer"
	"hrms-payroll/internal/payroll"
	"hrms-payroll/internal/shared/connection"
	"hrms-payroll/internal/taxslab"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer handles payslip-requested events: it recomputes the
// payslip for the referenced run and stamps it generated.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	payrollRepo := payroll.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	payrollService := payroll.NewService(sqlDB, payrollRepo, payroll.Feeds{
		Employees:   employee.NewRepository(gormDB),
		Attendance:  attendance.NewRepository(gormDB),
		Leaves:      leave.NewRepository(gormDB),
		Holidays:    holiday.NewRepository(gormDB),
		Slabs:       taxslab.NewService(sqlDB, taxslab.NewRepository(gormDB), nil),
		Investments: investment.NewService(investment.NewRepository(gormDB)),
	}, outboxRepo)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollPayslipRequestedTopic,
		GroupID:        "hrms-payroll-payslip",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollPayslipRequested(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
