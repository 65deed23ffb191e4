package runtime

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neovm/pkg/core/interop"
	"github.com/nspcc-dev/neovm/pkg/vm"
	"github.com/nspcc-dev/neovm/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// MaxNotificationSize is the maximum length of a runtime log message or a
// serialized notification.
const MaxNotificationSize = 1024

// ErrNoContext is returned when there is no context to get the script
// hash from.
var ErrNoContext = errors.New("no execution context")

// GetExecutingScriptHash pushes the hash of the current script.
func GetExecutingScriptHash(_ *interop.Context, v *vm.VM) error {
	return pushContextScriptHash(v, v.Context())
}

// GetCallingScriptHash pushes the hash of the calling script or an empty
// byte array for the entry context.
func GetCallingScriptHash(_ *interop.Context, v *vm.VM) error {
	ctx := v.CallingContext()
	if ctx == nil {
		v.Estack().PushVal([]byte{})
		return nil
	}
	return pushContextScriptHash(v, ctx)
}

// GetEntryScriptHash pushes the hash of the entry script.
func GetEntryScriptHash(_ *interop.Context, v *vm.VM) error {
	return pushContextScriptHash(v, v.EntryContext())
}

func pushContextScriptHash(v *vm.VM, ctx *vm.Context) error {
	if ctx == nil {
		return ErrNoContext
	}
	h := ctx.ScriptHash()
	v.Estack().PushVal(h.BytesBE())
	return nil
}

// GetScriptContainer pushes the message of the current iteration, that is
// what the script container signs.
func GetScriptContainer(_ *interop.Context, v *vm.VM) error {
	msg := v.GetMessage()
	if msg == nil {
		return errors.New("no script container")
	}
	v.Estack().PushVal(msg)
	return nil
}

// Notify stores a copy of the item from the stack as a notification of the
// current script. The item must be serializable.
func Notify(ic *interop.Context, v *vm.VM) error {
	elem := v.Estack().Pop()
	// It has to be serializable, otherwise we either have some broken
	// (recursive) structure inside or an interop item that can't be used
	// outside of the interop subsystem anyway.
	bytes, err := stackitem.Serialize(elem.Item())
	if err != nil {
		return fmt.Errorf("bad notification: %w", err)
	}
	if len(bytes) > MaxNotificationSize {
		return fmt.Errorf("notification size shouldn't exceed %d", MaxNotificationSize)
	}
	ne := interop.NotificationEvent{
		ScriptHash: v.Context().ScriptHash(),
		Item:       stackitem.DeepCopy(elem.Item()),
	}
	ic.Notifications = append(ic.Notifications, ne)
	ic.Log.Debug("runtime notify",
		zap.Stringer("script", ne.ScriptHash),
		zap.Stringer("type", ne.Item.Type()))
	return nil
}

// Log logs the message passed.
func Log(ic *interop.Context, v *vm.VM) error {
	state := v.Estack().Pop().Bytes()
	if len(state) > MaxNotificationSize {
		return fmt.Errorf("message length shouldn't exceed %v", MaxNotificationSize)
	}
	msg := fmt.Sprintf("%q", state)
	ic.Log.Info("runtime log",
		zap.Stringer("script", v.Context().ScriptHash()),
		zap.String("logs", msg))
	return nil
}

// Serialize serializes the top stack item into a byte array.
func Serialize(_ *interop.Context, v *vm.VM) error {
	item := v.Estack().Pop().Item()
	data, err := stackitem.Serialize(item)
	if err != nil {
		return err
	}
	if len(data) > stackitem.MaxSize {
		return stackitem.ErrTooBig
	}
	v.Estack().PushVal(data)
	return nil
}

// Deserialize decodes the top stack item from a byte array.
func Deserialize(_ *interop.Context, v *vm.VM) error {
	data := v.Estack().Pop().Bytes()
	item, err := stackitem.Deserialize(data)
	if err != nil {
		return err
	}
	v.Estack().PushItem(item)
	return nil
}
