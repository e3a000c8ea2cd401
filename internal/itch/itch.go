// Package itch implements the ITCH-like wire collaborator:
// a length-prefixed binary feed that translates Add/Cancel/Delete
// messages into MatchingEngine calls. Field layout and byte order are
// grounded on the reference feed handler this system descends from.
package itch

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"lob/domain/orderbook"
	"lob/internal/engine"
)

// Message types recognised by the collaborator. Any other
// type is a no-op: the core makes no assumptions about it.
const (
	msgAddOrder    = 'A'
	msgOrderCancel = 'X'
	msgOrderDelete = 'D'
)

const (
	addOrderPayloadLen    = 37
	orderCancelPayloadLen = 24
	orderDeletePayloadLen = 20
	symbolLen             = 8
)

// Reader parses a stream of length-prefixed ITCH messages and drives a
// MatchingEngine. Cancel and Delete messages only carry an order reference
// number, so dispatching them correctly requires an id->symbol mapping;
// Reader keeps one, populated on every Add and cleared on Delete.
type Reader struct {
	eng *engine.MatchingEngine

	mu        sync.Mutex
	idSymbols map[uint64]string

	messagesProcessed uint64
	messagesDropped   uint64

	onEvent func(kind, symbol string, id uint64, quantity uint32)
}

// NewReader constructs a Reader that drives eng.
func NewReader(eng *engine.MatchingEngine) *Reader {
	return &Reader{
		eng:       eng,
		idSymbols: make(map[uint64]string),
	}
}

// OnEvent registers a callback invoked after every applied submit, cancel,
// or modify (kind is one of "submit", "cancel", "modify"). Intended for an
// audit publisher; nil by default.
func (r *Reader) OnEvent(fn func(kind, symbol string, id uint64, quantity uint32)) {
	r.onEvent = fn
}

func (r *Reader) emit(kind, symbol string, id uint64, quantity uint32) {
	if r.onEvent != nil {
		r.onEvent(kind, symbol, id, quantity)
	}
}

// MessagesProcessed returns the count of recognised, well-formed messages
// applied to the engine.
func (r *Reader) MessagesProcessed() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messagesProcessed
}

// MessagesDropped returns the count of malformed messages (shorter than
// their declared type requires) discarded without effect.
func (r *Reader) MessagesDropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messagesDropped
}

// Replay reads every length-prefixed message in r until EOF, applying each
// to the engine in order. A truncated final message is dropped silently.
func (r *Reader) Replay(src io.Reader) error {
	br := bufio.NewReader(src)
	for {
		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "itch: read length prefix")
		}
		msgLen := binary.BigEndian.Uint16(lenBuf[:])
		if msgLen == 0 {
			continue
		}

		body := make([]byte, msgLen)
		if _, err := io.ReadFull(br, body); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return errors.Wrap(err, "itch: read message body")
		}

		r.handle(body[0], body[1:])
	}
}

func (r *Reader) handle(msgType byte, payload []byte) {
	switch msgType {
	case msgAddOrder:
		r.handleAdd(payload)
	case msgOrderCancel:
		r.handleCancel(payload)
	case msgOrderDelete:
		r.handleDelete(payload)
	default:
		// Unrecognised type: the core makes no assumptions about it.
	}
}

func (r *Reader) handleAdd(p []byte) {
	if len(p) < addOrderPayloadLen {
		r.drop()
		return
	}
	// stock_locate(2) tracking_number(2) timestamp(8) order_ref_num(8)
	// buy_sell_indicator(1) shares(4) stock(8) price(4)
	timestamp := binary.BigEndian.Uint64(p[4:12])
	orderID := binary.BigEndian.Uint64(p[12:20])
	side := orderbook.Buy
	if p[20] == 'S' {
		side = orderbook.Sell
	}
	shares := binary.BigEndian.Uint32(p[21:25])
	symbol := parseSymbol(p[25:33])
	price := binary.BigEndian.Uint32(p[33:37])

	r.mu.Lock()
	r.idSymbols[orderID] = symbol
	r.mu.Unlock()

	if r.eng.SubmitOrder(symbol, orderID, timestamp, price, shares, side, orderbook.Limit) {
		r.emit("submit", symbol, orderID, shares)
	}
	r.accept()
}

func (r *Reader) handleCancel(p []byte) {
	if len(p) < orderCancelPayloadLen {
		r.drop()
		return
	}
	// stock_locate(2) tracking_number(2) timestamp(8) order_ref_num(8)
	// cancelled_shares(4)
	orderID := binary.BigEndian.Uint64(p[12:20])
	cancelledShares := binary.BigEndian.Uint32(p[20:24])

	symbol, ok := r.symbolFor(orderID)
	if !ok {
		r.accept()
		return
	}
	if book := r.eng.GetBook(symbol); book != nil {
		if o, ok := book.Order(orderID); ok {
			if cancelledShares >= o.RemainingQty {
				r.eng.CancelOrder(symbol, orderID)
				r.forgetSymbol(orderID)
				r.emit("cancel", symbol, orderID, 0)
			} else {
				newQty := o.RemainingQty - cancelledShares
				r.eng.ModifyOrder(symbol, orderID, newQty)
				r.emit("modify", symbol, orderID, newQty)
			}
		}
	}
	r.accept()
}

func (r *Reader) handleDelete(p []byte) {
	if len(p) < orderDeletePayloadLen {
		r.drop()
		return
	}
	// stock_locate(2) tracking_number(2) timestamp(8) order_ref_num(8)
	orderID := binary.BigEndian.Uint64(p[12:20])

	symbol, ok := r.symbolFor(orderID)
	if ok {
		cancelled := r.eng.CancelOrder(symbol, orderID)
		r.forgetSymbol(orderID)
		if cancelled {
			r.emit("cancel", symbol, orderID, 0)
		}
	}
	r.accept()
}

func (r *Reader) symbolFor(orderID uint64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.idSymbols[orderID]
	return s, ok
}

func (r *Reader) forgetSymbol(orderID uint64) {
	r.mu.Lock()
	delete(r.idSymbols, orderID)
	r.mu.Unlock()
}

func (r *Reader) accept() {
	r.mu.Lock()
	r.messagesProcessed++
	r.mu.Unlock()
}

func (r *Reader) drop() {
	r.mu.Lock()
	r.messagesDropped++
	r.mu.Unlock()
}

func parseSymbol(b []byte) string {
	return strings.TrimRight(string(b), " ")
}
