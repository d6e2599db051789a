package config

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

var configSingleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	DbName            string        `mapstructure:"POSTGRES_DB"`
	DbHost            string        `mapstructure:"POSTGRES_HOST"`
	DbPort            string        `mapstructure:"POSTGRES_PORT"`
	DbUser            string        `mapstructure:"POSTGRES_USER"`
	DbPas             string        `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers      []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic   string        `mapstructure:"KAFKA_ORDER_TOPIC"`
	PaystackSecretKey string        `mapstructure:"PAYSTACK_SECRET_KEY"`
	PaystackBaseURL   string        `mapstructure:"PAYSTACK_BASE_URL"`
	GatewayTimeout    time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	SendGridAPIKey    string        `mapstructure:"SENDGRID_API_KEY"`
	AdminEmail        string        `mapstructure:"ADMIN_EMAIL"`
	SenderEmail       string        `mapstructure:"SENDER_EMAIL"`
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	if configSingleton == nil {
		muonce.Do(func() {
			configSingleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				configSingleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					configSingleton.mu.Lock()
					configSingleton.Config = cf
					configSingleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("GATEWAY_TIMEOUT", 10*time.Second)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}
	return
}
