package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"launcher-api/internal/constants"
	"launcher-api/internal/models"
)

// QRService provides QR code generation functionality
type QRService struct {
	logger *logrus.Logger
}

// NewQRService creates a new QR code service
func NewQRService(logger *logrus.Logger) *QRService {
	return &QRService{
		logger: logger,
	}
}

// GenerateQR generates a PNG QR code for the given text
func (s *QRService) GenerateQR(text string) ([]byte, error) {
	s.logger.Debugf("Generating QR code for text: %s", text)

	png, err := qrcode.Encode(text, qrcode.Medium, constants.QRSize)
	if err != nil {
		s.logger.Errorf("Failed to generate QR code: %v", err)
		return nil, err
	}

	return png, nil
}

// ReceiptText returns the text encoded in a payment receipt
func ReceiptText(p models.Payment) string {
	return fmt.Sprintf("payment:%d;type:%s;user:%s;amount:%.2f;status:%s;created:%s",
		p.ID, p.Type, p.Username, p.Amount, p.Status, p.CreatedAt.UTC().Format(constants.TimestampFormat))
}

// PaymentReceipt generates a QR code a payer can show when settling a cash payment
func (s *QRService) PaymentReceipt(p models.Payment) ([]byte, error) {
	return s.GenerateQR(ReceiptText(p))
}
