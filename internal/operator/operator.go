package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage storage.Storage
	queue   chan ActionItem
	logger  logrus.FieldLogger
}

func NewOperator(s storage.Storage, queue chan ActionItem, logger logrus.FieldLogger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		err := o.processItem(item)
		// The write is finished, committed or not, before anyone hears about it.
		item.done()
		item.response <- ActionItemResponse{err: err}
	}
}

func (o *Operator) processItem(item ActionItem) (err error) {
	// The caller may have given up while the item sat in the queue.
	if err := item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return ledgererr.Storage("operator.Write", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operator: action %T panicked: %v", item.action, r)
			o.rollback(item, writer)
		}
	}()

	if err = item.action.Perform(item.ctx, writer); err != nil {
		o.rollback(item, writer)
		return err
	}

	if err = writer.Commit(item.ctx); err != nil {
		return ledgererr.Storage("operator.Commit", err)
	}

	return nil
}

func (o *Operator) rollback(item ActionItem, writer *storage.Writer) {
	if err := writer.Rollback(context.WithoutCancel(item.ctx)); err != nil {
		o.logger.WithError(err).WithField("action", fmt.Sprintf("%T", item.action)).Warn("Operator.rollback")
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
	done     func()
}

type ActionItemResponse struct {
	err error
}
