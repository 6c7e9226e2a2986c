package config

import (
	"paygate-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                           utils.GetEnvString("APP_ENV", "development"),
			Port:                          utils.GetEnvString("APP_PORT", ":8080"),
			Version:                       utils.GetEnvString("APP_VERSION", "v1.0"),
			Timezone:                      utils.GetEnvString("APP_TIMEZONE", "Asia/Shanghai"),
			EndpointPrefix:                utils.GetEnvString("APP_ENDPOINT_PREFIX", "/v1"),
			APIKey:                        utils.GetEnvString("APP_API_KEY", ""),
			MaxRequests:                   utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds:      utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:       utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			ProviderTimeoutInSeconds:      utils.GetEnvInt("APP_PROVIDER_TIMEOUT_IN_SECONDS", 15),
			ProviderRateLimitPerSecond:    utils.GetEnvInt("APP_PROVIDER_RATE_LIMIT_PER_SECOND", 20),
			NotificationDedupTTLInMinutes: utils.GetEnvInt("APP_NOTIFICATION_DEDUP_TTL_IN_MINUTES", 1440),
		},
		Alipay: AppAlipay{
			AppID:         utils.GetEnvString("ALIPAY_APP_ID", ""),
			Partner:       utils.GetEnvString("ALIPAY_PARTNER", ""),
			ServiceUrl:    utils.GetEnvString("ALIPAY_SERVICE_URL", "https://openapi.alipay.com/gateway.do"),
			RsaPrivateKey: utils.GetEnvString("ALIPAY_RSA_PRIVATE_KEY", ""),
			RsaPublicKey:  utils.GetEnvString("ALIPAY_RSA_PUBLIC_KEY", ""),
			Charset:       utils.GetEnvString("ALIPAY_CHARSET", "utf-8"),
			SignType:      utils.GetEnvString("ALIPAY_SIGN_TYPE", "RSA2"),
		},
		Wechat: AppWechat{
			AppID:         utils.GetEnvString("WECHAT_APP_ID", ""),
			MchID:         utils.GetEnvString("WECHAT_MCH_ID", ""),
			MchKey:        utils.GetEnvString("WECHAT_MCH_KEY", ""),
			SubAppID:      utils.GetEnvString("WECHAT_SUB_APP_ID", ""),
			SubMchID:      utils.GetEnvString("WECHAT_SUB_MCH_ID", ""),
			ServiceUrl:    utils.GetEnvString("WECHAT_SERVICE_URL", "https://api.mch.weixin.qq.com"),
			SignType:      utils.GetEnvString("WECHAT_SIGN_TYPE", "MD5"),
			UseSandboxEnv: utils.GetEnvBool("WECHAT_USE_SANDBOX_ENV", false),
		},
		Events: AppEvents{
			QueueName:           utils.GetEnvString("EVENTS_QUEUE_NAME", "transaction_events_queue"),
			DeadLetterQueueName: utils.GetEnvString("EVENTS_DLQ_NAME", "transaction_events_dlq"),
			Prefetch:            utils.GetEnvInt("EVENTS_PREFETCH", 1),
		},
		Archive: AppArchive{
			BucketName: utils.GetEnvString("ARCHIVE_BUCKET_NAME", "webhook-payloads"),
			Enabled:    utils.GetEnvBool("ARCHIVE_ENABLED", true),
		},
	}
}
