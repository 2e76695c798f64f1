package nav

import "errors"

// SkipChildren may be returned by a Visit function to skip a category's children.
var SkipChildren = errors.New("skip children")

var errStop = errors.New("stop walk")
