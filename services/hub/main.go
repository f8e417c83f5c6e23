// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/condosense/CondoSenseHub/services/hub/alerts"
	"github.com/condosense/CondoSenseHub/services/hub/analysis"
	"github.com/condosense/CondoSenseHub/services/hub/handlers"
	"github.com/condosense/CondoSenseHub/services/hub/reconcile"
	"github.com/condosense/CondoSenseHub/services/hub/routes"
	"github.com/condosense/CondoSenseHub/services/hub/storage/badger"
	"github.com/condosense/CondoSenseHub/services/hub/store"
	"github.com/condosense/CondoSenseHub/services/hub/suggestions"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		// No collector configured; run without tracing.
		return func(context.Context) {}, nil
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("condosense-hub")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func newAnalyzer() (analysis.Analyzer, error) {
	backendType := os.Getenv("AI_BACKEND_TYPE")
	switch backendType {
	case "openai":
		slog.Info("Using OpenAI analysis backend")
		return analysis.NewOpenAIAnalyzer()
	case "gemini":
		slog.Info("Using Gemini analysis backend")
		return analysis.NewGeminiAnalyzer()
	default:
		slog.Warn("AI_BACKEND_TYPE not set or invalid, defaulting to gemini")
		return analysis.NewGeminiAnalyzer()
	}
}

func main() {
	port := os.Getenv("HUB_PORT")
	if port == "" {
		port = "12310"
	}
	dataDir := os.Getenv("HUB_DATA_DIR")
	if dataDir == "" {
		dataDir = "/var/lib/condosense"
		slog.Warn("HUB_DATA_DIR not set, defaulting to /var/lib/condosense")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	db, err := badger.Open(badger.DefaultConfig(dataDir))
	if err != nil {
		log.Fatalf("FATAL: Could not open the hub database: %v", err)
	}
	defer db.Close()

	analyzer, err := newAnalyzer()
	if err != nil {
		log.Fatalf("Failed to initialize the analysis backend: %v", err)
	}

	st := store.New(db, logger)
	engine := reconcile.New(st, analyzer, logger)
	tracker := alerts.New(st)
	suggestionService := suggestions.New(st, logger)
	alertHub := handlers.NewAlertHub()

	router := gin.Default()
	router.Use(otelgin.Middleware("condosense-hub"))

	routes.SetupRoutes(router, st, engine, tracker, suggestionService, alertHub)

	log.Println("Starting the hub server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
