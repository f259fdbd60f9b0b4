package viewer

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "[viewer] ", log.LstdFlags|log.Lmsgprefix)
