package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/ecomhub/internal/domain/apperr"
	"github.com/RoyceAzure/lab/ecomhub/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepo struct {
	db *DbDao
}

func NewTransactionRepo(db *DbDao) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// CreateWithOrderStatus - Transaction寫入與Order狀態更新在同一個transaction
// 兩者一起成功或一起失敗
// Amount在鎖住order後由當下總額複製，不信任呼叫端
// 同一訂單第二筆transaction撞order_id唯一索引，輸的那邊拿conflict，不會產生重複紀錄
func (s *TransactionRepo) CreateWithOrderStatus(ctx context.Context, txn *model.Transaction, orderStatus model.OrderStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "order_id = ?", txn.OrderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Order not found")
		}
		if err != nil {
			return err
		}

		txn.Amount = order.TotalAmount

		err = tx.Create(txn).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("order %d already has a transaction", txn.OrderID)
		}
		if err != nil {
			return err
		}

		return tx.Model(&order).Update("status", orderStatus).Error
	})
}

// Read - 根據ID查詢transaction
func (s *TransactionRepo) GetTransactionByID(ctx context.Context, transactionID uint) (*model.Transaction, error) {
	var txn model.Transaction
	err := s.db.WithContext(ctx).First(&txn, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction %d not found", transactionID)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Read - 根據訂單ID查詢transaction
func (s *TransactionRepo) GetTransactionByOrderID(ctx context.Context, orderID uint) (*model.Transaction, error) {
	var txn model.Transaction
	err := s.db.WithContext(ctx).First(&txn, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction for order %d not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Read - 查詢用戶的所有transactions (join orders)
func (s *TransactionRepo) GetTransactionsByUserID(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.order_id = transactions.order_id").
		Where("orders.user_id = ?", userID).
		Order("transactions.transaction_date DESC").
		Find(&txns).Error
	return txns, err
}

// Read - 查詢所有transactions (admin用)
func (s *TransactionRepo) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := s.db.WithContext(ctx).Order("transaction_date DESC").Find(&txns).Error
	return txns, err
}

// UpdateStatusWithOrder - 更新transaction狀態並同步訂單狀態
// completed -> order paid, failed -> order failed, 其他狀態不動訂單
// transaction寫入與order cascade在同一個transaction
func (s *TransactionRepo) UpdateStatusWithOrder(ctx context.Context, transactionID uint, status model.TransactionStatus) (*model.Transaction, error) {
	var updated model.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn model.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&txn, "transaction_id = ?", transactionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("transaction %d not found", transactionID)
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&txn).Update("status", status).Error; err != nil {
			return err
		}

		var orderStatus model.OrderStatus
		switch status {
		case model.TransactionStatusCompleted:
			orderStatus = model.OrderStatusPaid
		case model.TransactionStatusFailed:
			orderStatus = model.OrderStatusFailed
		default:
			updated = txn
			updated.Status = status
			return nil
		}

		if err := tx.Model(&model.Order{}).
			Where("order_id = ?", txn.OrderID).
			Update("status", orderStatus).Error; err != nil {
			return err
		}

		updated = txn
		updated.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreatePaymentAttempt - gateway呼叫前先落地attempt紀錄
// gateway成功但本地寫入失敗時靠這筆追查
func (s *TransactionRepo) CreatePaymentAttempt(ctx context.Context, attempt *model.PaymentAttempt) error {
	return s.db.WithContext(ctx).Create(attempt).Error
}

// MarkAttemptReconciled - transaction commit後標記attempt已對帳
func (s *TransactionRepo) MarkAttemptReconciled(ctx context.Context, attemptID uint) error {
	return s.db.WithContext(ctx).Model(&model.PaymentAttempt{}).
		Where("attempt_id = ?", attemptID).Update("reconciled", true).Error
}

// ListUnreconciledAttempts - 未對帳的attempt清單，對帳排查用
func (s *TransactionRepo) ListUnreconciledAttempts(ctx context.Context) ([]model.PaymentAttempt, error) {
	var attempts []model.PaymentAttempt
	err := s.db.WithContext(ctx).Where("reconciled = ?", false).
		Order("attempt_id").Find(&attempts).Error
	return attempts, err
}
