package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/keylock"
)

// EquipmentGuard serializes mutations per equipment. Every state-changing
// operation runs as: acquire the per-inventory-number lock, open a
// transaction, re-read the equipment row FOR UPDATE, then validate and write.
// Re-reading after acquisition is the point: a status checked before the lock
// may be stale by the time the lock is held.
type EquipmentGuard struct {
	locks     *keylock.KeyLock
	txManager repositories.TxManagerInterface
	equipment repositories.EquipmentRepositoryInterface
}

func NewEquipmentGuard(
	locks *keylock.KeyLock,
	txManager repositories.TxManagerInterface,
	equipment repositories.EquipmentRepositoryInterface,
) *EquipmentGuard {
	return &EquipmentGuard{locks: locks, txManager: txManager, equipment: equipment}
}

// WithEquipmentLock runs fn while exclusively holding the equipment identified
// by inventoryNumber. fn receives the freshly locked row; the transaction
// commits when fn returns nil and rolls back otherwise.
func (g *EquipmentGuard) WithEquipmentLock(
	ctx context.Context,
	inventoryNumber string,
	fn func(tx pgx.Tx, equipment *entities.Equipment) error,
) error {
	release, err := g.locks.Acquire(ctx, inventoryNumber)
	if err != nil {
		return err
	}
	defer release()

	return g.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := g.equipment.FindForUpdate(ctx, tx, inventoryNumber)
		if err != nil {
			return err
		}
		return fn(tx, equipment)
	})
}

// WithNewEquipmentLock is the intake variant: it holds the key lock without
// requiring the row to exist yet, for create-or-update flows (manual intake,
// import reconciliation).
func (g *EquipmentGuard) WithNewEquipmentLock(
	ctx context.Context,
	inventoryNumber string,
	fn func(tx pgx.Tx) error,
) error {
	release, err := g.locks.Acquire(ctx, inventoryNumber)
	if err != nil {
		return err
	}
	defer release()

	return g.txManager.RunInTransaction(ctx, fn)
}
