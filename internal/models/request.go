package models

import "time"

// RequestStatus статус заявки на подписку.
type RequestStatus string

const (
	// RequestPending заявка ожидает решения администратора.
	RequestPending RequestStatus = "pending"
	// RequestApproved заявка одобрена, подписка создана.
	RequestApproved RequestStatus = "approved"
	// RequestRejected заявка отклонена.
	RequestRejected RequestStatus = "rejected"
)

// Valid сообщает, является ли статус одним из известных.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// SubscriptionRequest представляет заявку пользователя на подписку
// с офлайн-оплатой. Статус меняется ровно один раз: pending -> approved
// либо pending -> rejected; оба конечных состояния терминальны.
type SubscriptionRequest struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id"`
	Type             SubscriptionType `json:"subscription_type"`
	Status           RequestStatus    `json:"status"`
	PaymentReference *string          `json:"payment_reference"`
	AdminNote        *string          `json:"admin_note"`
	ApprovedBy       *int64           `json:"approved_by"`
	ApprovedAt       *time.Time       `json:"approved_at"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ApprovalNotice сообщение для очереди уведомлений об одобренной заявке.
type ApprovalNotice struct {
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Type    SubscriptionType `json:"subscription_type"`
	EndDate time.Time        `json:"end_date"`
}
