package services

import (
	"database/sql"
	"errors"

	"souq/internal/domain"
	"souq/internal/repos"
)

// ErrVoucherUnusable covers every way a code can fail the usage gate:
// unknown, inactive, expired, or out of usages.
var ErrVoucherUnusable = errors.New("voucher not found or no usages left")

// VoucherService owns the usage gate: active with remaining uses, decrement
// on use, deactivate on exhaustion. Unlimited vouchers (null usage count)
// bypass the usage axis entirely.
type VoucherService struct {
	Vouchers *repos.VoucherRepo
}

func NewVoucherService(vouchers *repos.VoucherRepo) *VoucherService {
	return &VoucherService{Vouchers: vouchers}
}

// Use burns one usage of the voucher identified by code and returns its
// post-use state. An unlimited voucher is returned unchanged.
func (s *VoucherService) Use(code string) (domain.Voucher, error) {
	v, err := s.Vouchers.FindUsable(code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Voucher{}, ErrVoucherUnusable
	}
	if err != nil {
		return domain.Voucher{}, err
	}

	if v.NoOfUsage == nil {
		return v, nil
	}

	remaining, err := s.Vouchers.DecrementUsage(code)
	if err != nil {
		return domain.Voucher{}, err
	}
	if remaining <= 0 {
		if err := s.Vouchers.Deactivate(code); err != nil {
			return domain.Voucher{}, err
		}
	}
	return s.Vouchers.Get(v.ID)
}

// GetByCode looks up an active, unexpired voucher without consuming a usage.
func (s *VoucherService) GetByCode(code string) (domain.Voucher, error) {
	v, err := s.Vouchers.GetByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Voucher{}, ErrVoucherUnusable
	}
	return v, err
}
