package identifier

import (
	"strings"
	"unicode"

	"tradecore/internal/errors"
	"tradecore/pkg/exception"
)

// ExternalStrategy marks orders and positions not owned by a local strategy.
const ExternalStrategy StrategyID = "EXTERNAL"

type (
	// TraderID is a "NAME-TAG" pair, e.g. "TESTER-000".
	TraderID string
	// StrategyID is a "NAME-TAG" pair, e.g. "S-001", or EXTERNAL.
	StrategyID string
	// AccountID is an "ISSUER-NUMBER" pair, e.g. "SIM-001".
	AccountID string

	ClientOrderID   string
	VenueOrderID    string
	TradeID         string
	PositionID      string
	OrderListID     string
	ExecAlgorithmID string
	Venue           string
	Symbol          string
)

func check(kind, v string) error {
	if v == "" {
		return errors.Wrapf(exception.ErrInvalidIdentifier, "%s is empty", kind)
	}
	for _, r := range v {
		if !unicode.IsPrint(r) {
			return errors.Wrapf(exception.ErrInvalidIdentifier, "%s %q has a non-printable character", kind, v)
		}
	}
	if strings.TrimSpace(v) != v {
		return errors.Wrapf(exception.ErrInvalidIdentifier, "%s %q has surrounding whitespace", kind, v)
	}
	return nil
}

func checkPair(kind, v string) error {
	if err := check(kind, v); err != nil {
		return err
	}
	idx := strings.LastIndexByte(v, '-')
	if idx <= 0 || idx == len(v)-1 {
		return errors.Wrapf(exception.ErrInvalidIdentifier, "%s %q must be NAME-TAG", kind, v)
	}
	return nil
}

func NewTraderID(v string) (TraderID, error) {
	if err := checkPair("trader id", v); err != nil {
		return "", err
	}
	return TraderID(v), nil
}

// Tag is the part after the last `-`.
func (t TraderID) Tag() string {
	return tagOf(string(t))
}

func NewStrategyID(v string) (StrategyID, error) {
	if v == string(ExternalStrategy) {
		return ExternalStrategy, nil
	}
	if err := checkPair("strategy id", v); err != nil {
		return "", err
	}
	return StrategyID(v), nil
}

// Tag is the part after the last `-`. EXTERNAL has no tag.
func (s StrategyID) Tag() string {
	if s == ExternalStrategy {
		return string(s)
	}
	return tagOf(string(s))
}

func (s StrategyID) IsExternal() bool {
	return s == ExternalStrategy
}

func NewAccountID(v string) (AccountID, error) {
	if err := check("account id", v); err != nil {
		return "", err
	}
	idx := strings.IndexByte(v, '-')
	if idx <= 0 || idx == len(v)-1 {
		return "", errors.Wrapf(exception.ErrInvalidIdentifier, "account id %q must be ISSUER-NUMBER", v)
	}
	return AccountID(v), nil
}

// Issuer is the part before the first `-`, matching a venue name.
func (a AccountID) Issuer() string {
	s := string(a)
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Number is the part after the first `-`.
func (a AccountID) Number() string {
	s := string(a)
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		return s[idx+1:]
	}
	return ""
}

func NewClientOrderID(v string) (ClientOrderID, error) {
	if err := check("client order id", v); err != nil {
		return "", err
	}
	return ClientOrderID(v), nil
}

func NewVenueOrderID(v string) (VenueOrderID, error) {
	if err := check("venue order id", v); err != nil {
		return "", err
	}
	return VenueOrderID(v), nil
}

func NewTradeID(v string) (TradeID, error) {
	if err := check("trade id", v); err != nil {
		return "", err
	}
	return TradeID(v), nil
}

func NewPositionID(v string) (PositionID, error) {
	if err := check("position id", v); err != nil {
		return "", err
	}
	return PositionID(v), nil
}

func NewOrderListID(v string) (OrderListID, error) {
	if err := check("order list id", v); err != nil {
		return "", err
	}
	return OrderListID(v), nil
}

func NewExecAlgorithmID(v string) (ExecAlgorithmID, error) {
	if err := check("exec algorithm id", v); err != nil {
		return "", err
	}
	return ExecAlgorithmID(v), nil
}

func NewVenue(v string) (Venue, error) {
	if err := check("venue", v); err != nil {
		return "", err
	}
	return Venue(v), nil
}

func NewSymbol(v string) (Symbol, error) {
	if err := check("symbol", v); err != nil {
		return "", err
	}
	return Symbol(v), nil
}

func tagOf(s string) string {
	if idx := strings.LastIndexByte(s, '-'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
