package config

type (
	DriverConfig struct {
		Redis    Redis
		RabbitMQ RabbitMQ
		Minio    Minio
		Logger   Logger
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)

type InternalConfig struct {
	App     App
	Alipay  AppAlipay
	Wechat  AppWechat
	Events  AppEvents
	Archive AppArchive
}

type App struct {
	Env                           string
	Port                          string
	Version                       string
	Timezone                      string
	EndpointPrefix                string
	APIKey                        string
	MaxRequests                   int
	ShutdownTimeoutInSeconds      int
	RequestTimeoutInSeconds       int
	ProviderTimeoutInSeconds      int
	ProviderRateLimitPerSecond    int
	NotificationDedupTTLInMinutes int
}

type AppAlipay struct {
	AppID         string
	Partner       string
	ServiceUrl    string
	RsaPrivateKey string
	RsaPublicKey  string
	Charset       string
	SignType      string
}

type AppWechat struct {
	AppID         string
	MchID         string
	MchKey        string
	SubAppID      string
	SubMchID      string
	ServiceUrl    string
	SignType      string
	UseSandboxEnv bool
}

type AppEvents struct {
	QueueName           string
	DeadLetterQueueName string
	Prefetch            int
}

type AppArchive struct {
	BucketName string
	Enabled    bool
}
