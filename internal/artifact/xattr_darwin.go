package artifact

import "golang.org/x/sys/unix"

var errNoAttr = unix.ENOATTR
