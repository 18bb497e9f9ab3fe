package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

var ignoreModsOnce sync.Once

// bindQuit runs quit when keySequence is pressed while the window has focus.
func bindQuit(xu *xgbutil.XUtil, win xproto.Window, keySequence string, quit func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		quit()
	}).Connect(xu, win, keySequence, false)
}

// configureIgnoreMods makes key bindings match regardless of the lock
// modifiers.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	ignoreModsOnce.Do(func() {
		xevent.IgnoreMods = ignoreMasks(
			modMaskForKeysym(xu, "Num_Lock"),
			modMaskForKeysym(xu, "Scroll_Lock"),
		)
	})
}

// ignoreMasks returns every combination of CapsLock and the given lock
// masks, including the empty one.
func ignoreMasks(numLock, scrollLock uint16) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
