package service

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	evt_model "github.com/RoyceAzure/lab/ecomhub/internal/domain/model/event"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/gateway"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/notifier"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/producer"
	"github.com/RoyceAzure/lab/ecomhub/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
)

const paymentCurrency = "NGN"

type IPaymentService interface {
	CreateTransaction(ctx context.Context, actor model.Actor, orderID uint, method model.PaymentMethod, reference string) (*model.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, actor model.Actor, transactionID uint, status model.TransactionStatus) (*model.Transaction, error)
	GetTransaction(ctx context.Context, actor model.Actor, transactionID uint) (*model.Transaction, error)
	ListTransactions(ctx context.Context, actor model.Actor) ([]model.Transaction, error)
}

// PaymentService 金流對帳
// gateway裁決與本地寫入之間的一致性都在這層處理
type PaymentService struct {
	txnRepo   db.ITransactionRepository
	orderRepo db.IOrderRepository
	gateway   gateway.PaymentGateway
	notifier  notifier.Notifier
	producer  producer.IOrderEventProducer // 可為nil
}

func NewPaymentService(txnRepo db.ITransactionRepository, orderRepo db.IOrderRepository, gw gateway.PaymentGateway, notifier notifier.Notifier, producer producer.IOrderEventProducer) *PaymentService {
	return &PaymentService{
		txnRepo:   txnRepo,
		orderRepo: orderRepo,
		gateway:   gw,
		notifier:  notifier,
		producer:  producer,
	}
}

// CreateTransaction 對一張訂單發起付款確認
// gateway例外: 不寫任何東西，通知管理員，對外只回統一錯誤訊息
// gateway裁決 (paid / not paid): Transaction與Order狀態一次寫入，一起成功或一起失敗
// 同一訂單的第二筆transaction會在寫入點拿到conflict，不會產生重複紀錄
func (s *PaymentService) CreateTransaction(ctx context.Context, actor model.Actor, orderID uint, method model.PaymentMethod, reference string) (*model.Transaction, error) {
	if !method.IsValid() {
		return nil, apperr.Validation("Invalid payment method.")
	}
	if reference == "" {
		return nil, apperr.Validation("payment reference is required")
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("Order not found.")
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(order.UserID) {
		return nil, apperr.NotFound("Order not found.")
	}

	// gateway呼叫前先落地attempt
	// gateway成功但本地寫入失敗時，這筆是追查已扣款未入帳的唯一線索
	attempt := &model.PaymentAttempt{
		OrderID:          orderID,
		PaymentReference: reference,
	}
	if err := s.txnRepo.CreatePaymentAttempt(ctx, attempt); err != nil {
		return nil, apperr.Internal("record payment attempt", err)
	}

	result, err := s.gateway.Verify(ctx, reference, order.TotalAmount, paymentCurrency)
	if err != nil {
		// gateway例外不動任何本地狀態
		log.Error().Err(err).Uint("order_id", orderID).Str("reference", reference).
			Str("gateway_kind", string(apperr.GatewayKindOf(err))).
			Msg("payment gateway verify failed")
		s.notifier.Notify(ctx, "Payment gateway failure",
			fmt.Sprintf("verify failed for order %d, reference %s: %v", orderID, reference, err))
		return nil, apperr.ErrPaymentUnavailable
	}

	txnStatus := model.TransactionStatusFailed
	orderStatus := model.OrderStatusFailed
	if result.Succeeded {
		txnStatus = model.TransactionStatusCompleted
		orderStatus = model.OrderStatusPaid
	}

	txn := &model.Transaction{
		OrderID:          orderID,
		PaymentMethod:    method,
		PaymentReference: reference,
		Status:           txnStatus,
		// Amount由repo在鎖住order後複製當下總額
	}
	if err := s.txnRepo.CreateWithOrderStatus(ctx, txn, orderStatus); err != nil {
		if apperr.IsConflict(err) || apperr.IsNotFound(err) {
			return nil, err
		}
		// gateway可能已經扣款成功，這裡失敗不能偽裝成gateway錯誤
		log.Error().Err(err).Uint("order_id", orderID).Str("reference", reference).
			Msg("transaction write failed after gateway verdict")
		return nil, apperr.Internal("record transaction", err)
	}

	if err := s.txnRepo.MarkAttemptReconciled(ctx, attempt.AttemptID); err != nil {
		log.Warn().Err(err).Uint("attempt_id", attempt.AttemptID).
			Msg("mark payment attempt reconciled failed")
	}

	s.publishPayment(ctx, txn)
	return txn, nil
}

// UpdateTransactionStatus 管理員手動改transaction狀態
// completed -> order paid, failed -> order failed, 同一transaction內cascade
func (s *PaymentService) UpdateTransactionStatus(ctx context.Context, actor model.Actor, transactionID uint, status model.TransactionStatus) (*model.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("Only staff members can update transaction status.")
	}
	if !status.IsValid() {
		return nil, apperr.Validation("invalid transaction status %q", status)
	}

	txn, err := s.txnRepo.UpdateStatusWithOrder(ctx, transactionID, status)
	if err != nil {
		return nil, err
	}

	if status == model.TransactionStatusCompleted || status == model.TransactionStatusFailed {
		s.publishPayment(ctx, txn)
	}
	return txn, nil
}

func (s *PaymentService) GetTransaction(ctx context.Context, actor model.Actor, transactionID uint) (*model.Transaction, error) {
	txn, err := s.txnRepo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		order, err := s.orderRepo.GetOrderByID(ctx, txn.OrderID)
		if err != nil {
			return nil, err
		}
		if !actor.Owns(order.UserID) {
			return nil, apperr.NotFound("transaction %d not found", transactionID)
		}
	}
	return txn, nil
}

// ListTransactions admin看全部，買家只看自己訂單的
func (s *PaymentService) ListTransactions(ctx context.Context, actor model.Actor) ([]model.Transaction, error) {
	if actor.IsAdmin() {
		return s.txnRepo.GetAllTransactions(ctx)
	}
	return s.txnRepo.GetTransactionsByUserID(ctx, actor.UserID)
}

func (s *PaymentService) publishPayment(ctx context.Context, txn *model.Transaction) {
	if s.producer == nil {
		return
	}
	if err := s.producer.ProduceEvent(ctx, txn.OrderID, evt_model.NewPaymentEvent(txn)); err != nil {
		log.Error().Err(err).Uint("order_id", txn.OrderID).Msg("produce payment event failed")
	}
}

var _ IPaymentService = (*PaymentService)(nil)
