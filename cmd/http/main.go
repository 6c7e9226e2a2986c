package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paygate-service/internal/app/config"
	"paygate-service/internal/app/contracts"
	"paygate-service/internal/app/delivery/http/middlewares"
	"paygate-service/internal/app/delivery/http/routers"
	"paygate-service/internal/app/drivers/database"
	"paygate-service/internal/app/drivers/logger"
	"paygate-service/internal/app/drivers/messaging"
	"paygate-service/internal/app/drivers/storage"
	"paygate-service/internal/app/services/core/payments"
	"paygate-service/internal/app/services/providers/alipay"
	"paygate-service/internal/app/services/providers/wechat"
	"paygate-service/internal/app/services/shared/archive"
	"paygate-service/internal/app/services/shared/eventqueue"
	"paygate-service/internal/app/services/shared/providerclient"
	"paygate-service/internal/app/services/shared/redis"
	"paygate-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Error closing application resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) {
	internalConfig := bootstrap.InternalConfig

	// Shared infrastructure
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	eventPublisher, err := eventqueue.NewService(
		bootstrap.RabbitMQ,
		bootstrap.Logger,
		internalConfig.Events.QueueName,
		internalConfig.Events.DeadLetterQueueName,
		internalConfig.Events.Prefetch,
	)
	if err != nil {
		bootstrap.Logger.Fatal("failed to initialize event queue: " + err.Error())
	}

	var payloadArchive contracts.PayloadArchive
	if internalConfig.Archive.Enabled {
		minioClient := storage.NewMinio(bootstrap.DriverConfig)
		payloadArchive = archive.NewMinioPayloadArchive(minioClient, internalConfig.Archive.BucketName)
	}

	providerTimeout := time.Duration(internalConfig.App.ProviderTimeoutInSeconds) * time.Second
	providerRate := internalConfig.App.ProviderRateLimitPerSecond

	// Providers
	plugins := make(map[string]contracts.TransactionPlugin)

	if internalConfig.Alipay.AppID != "" {
		alipayConfig := &alipay.Config{
			AppID:         internalConfig.Alipay.AppID,
			Partner:       internalConfig.Alipay.Partner,
			ServiceUrl:    internalConfig.Alipay.ServiceUrl,
			RsaPrivateKey: internalConfig.Alipay.RsaPrivateKey,
			RsaPublicKey:  internalConfig.Alipay.RsaPublicKey,
			Charset:       internalConfig.Alipay.Charset,
			SignType:      internalConfig.Alipay.SignType,
		}
		alipayClient := providerclient.NewClient(constvars.ProviderAlipay, alipayConfig.ServiceUrl, providerTimeout, providerRate, bootstrap.Logger)

		alipayPlugin, err := alipay.NewPlugin(alipayConfig, alipayClient, bootstrap.Logger)
		if err != nil {
			bootstrap.Logger.Fatal("failed to initialize alipay plugin: " + err.Error())
		}
		plugins[constvars.ProviderAlipay] = alipayPlugin

		alipayAuthCodePlugin, err := alipay.NewAuthCodePlugin(alipayConfig, alipayClient, bootstrap.Logger)
		if err != nil {
			bootstrap.Logger.Fatal("failed to initialize alipay auth-code plugin: " + err.Error())
		}
		plugins[constvars.ProviderAlipayAuthCode] = alipayAuthCodePlugin
	}

	if internalConfig.Wechat.AppID != "" {
		wechatConfig := &wechat.Config{
			AppID:         internalConfig.Wechat.AppID,
			MchID:         internalConfig.Wechat.MchID,
			MchKey:        internalConfig.Wechat.MchKey,
			SubAppID:      internalConfig.Wechat.SubAppID,
			SubMchID:      internalConfig.Wechat.SubMchID,
			ServiceUrl:    internalConfig.Wechat.ServiceUrl,
			SignType:      internalConfig.Wechat.SignType,
			UseSandboxEnv: internalConfig.Wechat.UseSandboxEnv,
		}
		wechatClient := providerclient.NewClient(constvars.ProviderWechat, wechatConfig.ServiceUrl, providerTimeout, providerRate, bootstrap.Logger)

		wechatPlugin, err := wechat.NewPlugin(wechatConfig, wechatClient, bootstrap.Logger)
		if err != nil {
			bootstrap.Logger.Fatal("failed to initialize wechat plugin: " + err.Error())
		}
		plugins[constvars.ProviderWechat] = wechatPlugin
	}

	// Payments
	paymentUsecase := payments.NewPaymentUsecase(
		plugins,
		redisRepository,
		eventPublisher,
		payloadArchive,
		internalConfig,
		bootstrap.Logger,
	)
	paymentController := payments.NewPaymentController(bootstrap.Logger, paymentUsecase, internalConfig)
	webhookController := payments.NewWebhookController(bootstrap.Logger, paymentUsecase, internalConfig)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, internalConfig)

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, paymentController, webhookController)
}
