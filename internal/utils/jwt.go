package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/veridia/paycore/models"
)

// paymentTokenIssuer identifies tokens minted by this service.
const paymentTokenIssuer = "paycore"

// SignPaymentClaims creates the signed HMAC-SHA256 token carried in
// PaymentPayload.Signature. The token binds the payer account, nonce,
// session, and transaction identifier together; changing any of them
// invalidates the signature.
//
// validity bounds the token's exp claim. All parameters are required.
func SignPaymentClaims(claims models.PaymentClaims, validity time.Duration, signKey string) (string, error) {
	if claims.AccountID == "" || claims.TransactionID == "" || validity <= 0 || signKey == "" {
		return "", errors.New("invalid params for signing payment claims")
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    paymentTokenIssuer,
		Subject:   claims.AccountID,
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing payment claims: %w", err)
	}

	return signed, nil
}

// ParsePaymentClaims validates tokenString against signKey and returns the
// embedded claim set. Validation covers the signature, the issuer, and the
// expiration claim.
func ParsePaymentClaims(tokenString, signKey string) (models.PaymentClaims, error) {
	var claims models.PaymentClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(paymentTokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.PaymentClaims{}, fmt.Errorf("error occurred validating payment claims: %w", err)
	}

	if claims.TransactionID == "" {
		return models.PaymentClaims{}, errors.New("payment claims missing transaction id")
	}

	return claims, nil
}
