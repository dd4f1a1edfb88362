package app

import (
	"dashpulse/clients/dashboardapi"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MessageKind discriminates inbound live-channel messages. Unknown kinds are
// represented explicitly so callers can ignore them without guessing.
type MessageKind int

const (
	MessageUnknown MessageKind = iota
	MessagePrice
	MessageTrade
	MessageBalance
	MessageStatus
)

func (k MessageKind) String() string {
	switch k {
	case MessagePrice:
		return "price_update"
	case MessageTrade:
		return "trade_update"
	case MessageBalance:
		return "balance_update"
	case MessageStatus:
		return "status_update"
	default:
		return "unknown"
	}
}

// InboundMessage is a decoded live-channel message. Exactly one payload field
// is meaningful, selected by Kind.
type InboundMessage struct {
	Kind    MessageKind
	Price   decimal.Decimal
	Trade   dashboardapi.TradeRecord
	Balance decimal.Decimal
	Status  string
}

// DecodeInbound parses a raw frame into a tagged message. A frame with an
// unrecognized type decodes to MessageUnknown with no error; a frame that
// cannot be parsed, or that names a known type but lacks its payload, returns
// an error and must be dropped by the caller.
func DecodeInbound(raw []byte) (InboundMessage, error) {
	var envelope struct {
		Type    string                    `json:"type"`
		Price   *decimal.Decimal          `json:"price"`
		Trade   *dashboardapi.TradeRecord `json:"trade"`
		Balance *decimal.Decimal          `json:"balance"`
		Status  *string                   `json:"status"`
	}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return InboundMessage{}, fmt.Errorf("decode inbound frame: %w", err)
	}

	switch envelope.Type {
	case "price_update":
		if envelope.Price == nil {
			return InboundMessage{}, errors.New("price_update missing price")
		}
		return InboundMessage{Kind: MessagePrice, Price: *envelope.Price}, nil

	case "trade_update":
		if envelope.Trade == nil {
			return InboundMessage{}, errors.New("trade_update missing trade")
		}
		return InboundMessage{Kind: MessageTrade, Trade: *envelope.Trade}, nil

	case "balance_update":
		if envelope.Balance == nil {
			return InboundMessage{}, errors.New("balance_update missing balance")
		}
		return InboundMessage{Kind: MessageBalance, Balance: *envelope.Balance}, nil

	case "status_update":
		if envelope.Status == nil {
			return InboundMessage{}, errors.New("status_update missing status")
		}
		return InboundMessage{Kind: MessageStatus, Status: *envelope.Status}, nil

	default:
		return InboundMessage{Kind: MessageUnknown}, nil
	}
}
