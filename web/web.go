// Package web embebe los assets del widget para servirlos desde el binario.
package web

import "embed"

//go:embed index.html widget.js
var Assets embed.FS
