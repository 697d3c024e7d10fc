package curriculum

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// catalogVersion digests everything a plan is derived from: the curriculum
// horizon and every course with its resolved edges, in catalog order.
func catalogVersion(c *Catalog, maxYear int) string {
	h, _ := blake2b.New256(nil)
	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}
	write(c.curriculumID, strconv.Itoa(maxYear))
	for _, course := range c.courses {
		write("course", string(course.ID), course.Code, course.Name, course.CurriculumID,
			strconv.Itoa(course.Year), strconv.Itoa(course.Term), strconv.Itoa(course.Hours))
		for _, p := range course.Prerequisites {
			write("edge", p.Kind.String(), string(p.ID), p.Code)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
