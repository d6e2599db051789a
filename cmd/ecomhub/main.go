package main

import (
	"time"

	"github.com/RoyceAzure/lab/ecomhub/internal/config"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/gateway"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/notifier"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/producer"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/ecomhub/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productCacheTTL = 10 * time.Minute
	orderPartitions = 3
)

// Services 組裝完成的服務集合，外層transport (HTTP/gRPC) 掛在這上面
type Services struct {
	User    service.IUserService
	Product service.IProductService
	Cart    service.ICartService
	Order   service.IOrderService
	Payment service.IPaymentService
}

// NewServices 用已建好的基礎設施組出全部服務，transport跟測試都從這裡拿
func NewServices(
	unified db.UnifiedDB,
	productRepo db.IProductRepository,
	eventProducer producer.IOrderEventProducer,
	paymentGateway gateway.PaymentGateway,
	adminNotifier notifier.Notifier,
) *Services {
	return &Services{
		User:    service.NewUserService(unified),
		Product: service.NewProductService(productRepo),
		Cart:    service.NewCartService(unified, productRepo),
		Order:   service.NewOrderService(unified, productRepo, eventProducer),
		Payment: service.NewPaymentService(unified, unified, paymentGateway, adminNotifier, eventProducer),
	}
}

func main() {
	cfg := config.GetConfig()

	conn, err := db.GetDbConn(cfg.DbName, cfg.DbHost, cfg.DbPort, cfg.DbUser, cfg.DbPas)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres failed")
	}
	unified := db.NewUnifiedDB(conn)
	if err := unified.InitMigrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate schema failed")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	productCache := redis_repo.NewProductRepo(redisClient, productCacheTTL)
	productRepo := redis_decorator.NewCacheAsideProductRepo(unified, productCache)

	eventProducer := producer.NewOrderEventProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, orderPartitions)
	defer eventProducer.Close()

	paymentGateway := gateway.NewPaystackGateway(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.GatewayTimeout)
	adminNotifier := notifier.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.SenderEmail, cfg.AdminEmail)

	services := NewServices(unified, productRepo, eventProducer, paymentGateway, adminNotifier)
	_ = services

	log.Info().Msg("ecomhub core initialized")

	// TODO: 掛上HTTP transport後改成正式的serve loop
	select {}
}
