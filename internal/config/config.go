package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	HubBaseURL string
	MySQLDSN   string

	RabbitMQURL       string
	RabbitExchange    string
	RabbitQueue       string
	RabbitRoutingKey  string
	RabbitConsumerTag string

	ConnectTimeout        time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration
	ChannelBuffer         int

	JobGraceDelay time.Duration
	DedupePushed  bool

	RequestTimeout time.Duration
	SSEHeartbeat   time.Duration

	OTELServiceName string
	OTLPEndpoint    string
	OTLPInsecure    bool
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:   ":8080",
		HubBaseURL: "http://localhost:8080",

		RabbitExchange:    "eventhub",
		RabbitQueue:       "eventhub.push",
		RabbitRoutingKey:  "push.*",
		RabbitConsumerTag: "eventhub-push",

		ConnectTimeout:        10 * time.Second,
		ReconnectInitialDelay: 500 * time.Millisecond,
		ReconnectMaxDelay:     30 * time.Second,
		ChannelBuffer:         64,

		JobGraceDelay: 5 * time.Second,

		RequestTimeout: 15 * time.Second,
		SSEHeartbeat:   15 * time.Second,

		OTELServiceName: "eventhub",
		OTLPInsecure:    true,
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	if v := os.Getenv("HUB_BASE_URL"); v != "" {
		cfg.HubBaseURL = v
	}

	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	if d, ok := seconds("CHANNEL_CONNECT_TIMEOUT_SECONDS"); ok {
		cfg.ConnectTimeout = d
	}
	if d, ok := millis("CHANNEL_RECONNECT_INITIAL_MS"); ok {
		cfg.ReconnectInitialDelay = d
	}
	if d, ok := millis("CHANNEL_RECONNECT_MAX_MS"); ok {
		cfg.ReconnectMaxDelay = d
	}
	if v := os.Getenv("CHANNEL_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChannelBuffer = n
		}
	}

	if d, ok := millis("JOB_GRACE_DELAY_MS"); ok {
		cfg.JobGraceDelay = d
	}
	if v := os.Getenv("NOTIFY_DEDUPE_PUSHED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DedupePushed = b
		}
	}

	if d, ok := seconds("REQUEST_TIMEOUT_SECONDS"); ok {
		cfg.RequestTimeout = d
	}
	if d, ok := seconds("SSE_HEARTBEAT_SECONDS"); ok {
		cfg.SSEHeartbeat = d
	}

	return cfg
}

func seconds(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

func millis(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}
