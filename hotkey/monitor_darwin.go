//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework Carbon
#include <stdlib.h>
#include <Carbon/Carbon.h>

// copyInputSourceID returns the stable identifier of the active keyboard
// input source, or NULL when the layout API is unusable. Caller frees.
static char *copyInputSourceID(void) {
	TISInputSourceRef source = TISCopyCurrentKeyboardInputSource();
	if (source == NULL) {
		return NULL;
	}
	CFStringRef id = (CFStringRef)TISGetInputSourceProperty(source, kTISPropertyInputSourceID);
	if (id == NULL) {
		CFRelease(source);
		return NULL;
	}
	CFIndex length = CFStringGetMaximumSizeForEncoding(CFStringGetLength(id), kCFStringEncodingUTF8) + 1;
	char *buf = malloc(length);
	if (buf == NULL || !CFStringGetCString(id, buf, length, kCFStringEncodingUTF8)) {
		free(buf);
		CFRelease(source);
		return NULL;
	}
	CFRelease(source);
	return buf;
}
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"
)

const (
	layoutPollInterval = 30 * time.Second
	layoutDebounce     = 500 * time.Millisecond
	layoutMaxErrs      = 3
)

// macOS has no push notification for layout switches; poll the input source
// id on a fixed interval instead.
func newLayoutMonitor(Provider) LayoutMonitor {
	return newPollMonitor(currentInputSourceID, layoutPollInterval, layoutDebounce, layoutMaxErrs)
}

func currentInputSourceID() (string, error) {
	cstr := C.copyInputSourceID()
	if cstr == nil {
		return "", fmt.Errorf("keyboard input source unavailable")
	}
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr), nil
}
