package functions

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"

	"github.com/spf13/cast"

	"github.com/rulego/tablecalc/types"
)

// hashFunction computes a hex digest of its string argument
type hashFunction struct {
	*BaseFunction
	sum func([]byte) []byte
}

func newHashFunction(name, description string, sum func([]byte) []byte) *hashFunction {
	return &hashFunction{
		BaseFunction: NewBaseFunction(name, TypeString, "hash", description,
			[]types.ScalarType{types.String}, types.String, 1, 1),
		sum: sum,
	}
}

func (f *hashFunction) Execute(args []interface{}) (interface{}, error) {
	str, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s requires string input: %w", f.GetName(), err)
	}
	return fmt.Sprintf("%x", f.sum([]byte(str))), nil
}

// NewMd5Function calculates MD5 hash value
func NewMd5Function() Function {
	return newHashFunction("md5", "Calculate MD5 hash value", func(b []byte) []byte {
		h := md5.Sum(b)
		return h[:]
	})
}

// NewSha1Function calculates SHA1 hash value
func NewSha1Function() Function {
	return newHashFunction("sha1", "Calculate SHA1 hash value", func(b []byte) []byte {
		h := sha1.Sum(b)
		return h[:]
	})
}

// NewSha256Function calculates SHA256 hash value
func NewSha256Function() Function {
	return newHashFunction("sha256", "Calculate SHA256 hash value", func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})
}
