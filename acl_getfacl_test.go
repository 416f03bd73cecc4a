//go:build linux && cgo

package posixacl_test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/fsqual/posixacl"
)

// getFAclInvocation shells out to getfacl(1) to verify written ACLs
// against an independent implementation.
type getFAclInvocation struct {
	cmd *exec.Cmd
	val []*getFAclResp
	pe  []error
}

type getFAclResp struct {
	tag posixacl.Tag
	// user or group id, -1 for entries without a qualifier
	cred int64
	perm posixacl.Perm

	raw []byte
}

func (c *getFAclInvocation) run(name string) error {
	if c.cmd != nil {
		panic("attempted to run twice")
	}

	c.cmd = exec.Command("getfacl", "--omit-header", "--absolute-names", "--numeric", name)

	scanErr := make(chan error, 1)
	if p, err := c.cmd.StdoutPipe(); err != nil {
		return err
	} else {
		go c.parse(p, scanErr)
	}

	if err := c.cmd.Start(); err != nil {
		return err
	}

	return errors.Join(<-scanErr, c.cmd.Wait())
}

func (c *getFAclInvocation) parse(pipe io.Reader, scanErr chan error) {
	c.val = make([]*getFAclResp, 0, 16)

	s := bufio.NewScanner(pipe)
	for s.Scan() {
		fields := bytes.SplitN(s.Bytes(), []byte{':'}, 3)
		if len(fields) != 3 {
			continue
		}

		resp := getFAclResp{cred: -1}

		if len(fields[1]) != 0 {
			cred, err := strconv.ParseInt(string(fields[1]), 10, 64)
			if err != nil {
				c.pe = append(c.pe, err)
				continue
			}
			if cred < 0 {
				c.pe = append(c.pe, fmt.Errorf("credential %d out of range", cred))
				continue
			}
			resp.cred = cred
		}

		switch string(fields[0]) {
		case "user":
			resp.tag = posixacl.TagUser
			if resp.cred == -1 {
				resp.tag = posixacl.TagUserObj
			}
		case "group":
			resp.tag = posixacl.TagGroup
			if resp.cred == -1 {
				resp.tag = posixacl.TagGroupObj
			}
		case "mask":
			resp.tag = posixacl.TagMask
		case "other":
			resp.tag = posixacl.TagOther
		default:
			c.pe = append(c.pe, fmt.Errorf("unknown type %s", string(fields[0])))
			continue
		}

		if len(fields[2]) != 3 {
			c.pe = append(c.pe, fmt.Errorf("invalid perm length %d", len(fields[2])))
			continue
		}
		var bad bool
		for i, b := range []struct {
			set  byte
			perm posixacl.Perm
		}{{'r', posixacl.Read}, {'w', posixacl.Write}, {'x', posixacl.Execute}} {
			switch fields[2][i] {
			case b.set:
				resp.perm |= b.perm
			case '-':
			default:
				c.pe = append(c.pe, fmt.Errorf("invalid perm %v", fields[2][i]))
				bad = true
			}
		}
		if bad {
			continue
		}

		resp.raw = make([]byte, len(s.Bytes()))
		copy(resp.raw, s.Bytes())
		c.val = append(c.val, &resp)
	}
	scanErr <- s.Err()
}

func (r *getFAclResp) String() string {
	if len(r.raw) > 0 {
		return string(r.raw)
	}

	return "(user-initialised resp value)"
}

func (r *getFAclResp) equals(tag posixacl.Tag, cred int64, perm posixacl.Perm) bool {
	return r.tag == tag && r.cred == cred && r.perm == perm
}

func respByCred(v []*getFAclResp, tag posixacl.Tag, cred int64) *getFAclResp {
	j := -1
	for i, r := range v {
		if r.tag == tag && r.cred == cred {
			if j != -1 {
				panic("invalid acl")
			}
			j = i
		}
	}
	if j == -1 {
		return nil
	}
	return v[j]
}
