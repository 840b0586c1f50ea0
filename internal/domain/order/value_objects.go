package order

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

const pinLength = 6

var ErrInvalidPin = errors.New("pickup pin must be exactly 6 digits")

// PickupPin is the short numeric credential the buyer presents at the
// locker. Comparison is constant-time so a mismatch leaks nothing about
// how many leading digits were correct.
type PickupPin struct {
	value string
}

func GeneratePickupPin() (PickupPin, error) {
	var b strings.Builder
	for i := 0; i < pinLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return PickupPin{}, fmt.Errorf("failed to generate pickup pin: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return PickupPin{value: b.String()}, nil
}

func NewPickupPin(value string) (PickupPin, error) {
	if len(value) != pinLength {
		return PickupPin{}, ErrInvalidPin
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return PickupPin{}, ErrInvalidPin
		}
	}
	return PickupPin{value: value}, nil
}

func (p PickupPin) Matches(candidate string) bool {
	if p.value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.value), []byte(candidate)) == 1
}

func (p PickupPin) String() string {
	return p.value
}

func (p PickupPin) IsSet() bool {
	return p.value != ""
}
