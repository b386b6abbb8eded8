// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"runtime"
)

// WindowHandle is a platform window handle supplied by the windowing layer.
// The set of variants is closed; see the types in this file.
//
// The handle is only consulted while a surface is created. Nothing in this
// package keeps it afterwards.
type WindowHandle interface {
	// Platform names the windowing system, e.g. "xlib" or "win32".
	Platform() string

	windowHandle()
}

// XlibWindow is an X11 window reached through Xlib.
type XlibWindow struct {
	Display uintptr // Display*
	Window  uintptr // Window (XID)
}

// XcbWindow is an X11 window reached through XCB.
type XcbWindow struct {
	Connection uintptr // xcb_connection_t*
	Window     uintptr // xcb_window_t
}

// WaylandWindow is a Wayland surface.
type WaylandWindow struct {
	Display uintptr // wl_display*
	Surface uintptr // wl_surface*
}

// Win32Window is a Windows window.
type Win32Window struct {
	HInstance uintptr
	HWND      uintptr
}

// AppKitWindow is a macOS view backed by a CAMetalLayer.
type AppKitWindow struct {
	View  uintptr // NSView*
	Layer uintptr // CAMetalLayer*, optional when View already hosts one
}

// AndroidWindow is an Android native window.
type AndroidWindow struct {
	Window uintptr // ANativeWindow*
}

// WebCanvas is an HTML canvas element in a browser.
type WebCanvas struct {
	ID string
}

func (XlibWindow) Platform() string    { return "xlib" }
func (XcbWindow) Platform() string     { return "xcb" }
func (WaylandWindow) Platform() string { return "wayland" }
func (Win32Window) Platform() string   { return "win32" }
func (AppKitWindow) Platform() string  { return "appkit" }
func (AndroidWindow) Platform() string { return "android" }
func (WebCanvas) Platform() string     { return "web" }

func (XlibWindow) windowHandle()    {}
func (XcbWindow) windowHandle()     {}
func (WaylandWindow) windowHandle() {}
func (Win32Window) windowHandle()   {}
func (AppKitWindow) windowHandle()  {}
func (AndroidWindow) windowHandle() {}
func (WebCanvas) windowHandle()     {}

// unixLike lists the operating systems that host X11 and Wayland.
var unixLike = map[string]bool{
	"linux": true, "freebsd": true, "openbsd": true, "netbsd": true, "dragonfly": true,
}

// RawHandles returns the display and window handles the HAL surface
// constructor expects for h on the running platform.
func RawHandles(h WindowHandle) (display, window uintptr, err error) {
	return rawHandles(h, runtime.GOOS)
}

func rawHandles(h WindowHandle, goos string) (display, window uintptr, err error) {
	unsupported := func() (uintptr, uintptr, error) {
		platform := "<nil>"
		if h != nil {
			platform = h.Platform()
		}
		return 0, 0, fmt.Errorf("%w: %s on %s", ErrUnsupportedPlatform, platform, goos)
	}

	switch w := h.(type) {
	case XlibWindow:
		if !unixLike[goos] || w.Display == 0 {
			return unsupported()
		}
		return w.Display, w.Window, nil
	case XcbWindow:
		if !unixLike[goos] || w.Connection == 0 {
			return unsupported()
		}
		return w.Connection, w.Window, nil
	case WaylandWindow:
		if !unixLike[goos] || w.Display == 0 || w.Surface == 0 {
			return unsupported()
		}
		return w.Display, w.Surface, nil
	case Win32Window:
		if goos != "windows" || w.HWND == 0 {
			return unsupported()
		}
		return w.HInstance, w.HWND, nil
	case AppKitWindow:
		if goos != "darwin" || (w.View == 0 && w.Layer == 0) {
			return unsupported()
		}
		if w.Layer != 0 {
			return 0, w.Layer, nil
		}
		return 0, w.View, nil
	default:
		return unsupported()
	}
}
