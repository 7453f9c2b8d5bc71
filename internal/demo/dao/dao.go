// Package dao holds the demo data-access beans.
package dao

import (
	"github.com/junioryono/stereo"
)

type BookDao interface {
	Read() string
}

type BookDaoImpl struct {
	stereo.Repository `name:"bookDao"`
}

func (*BookDaoImpl) Read() string {
	return "reading a book"
}

func init() {
	stereo.Register[BookDaoImpl](stereo.Implements[BookDao]())
}
