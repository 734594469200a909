package job

import (
	"fmt"
	"strings"
	"time"
)

var Exps = []string{"不限", "1年以下", "1-3年", "3-5年", "5-10年", "10年以上"}

var Educations = []string{"不限", "专科", "本科", "硕士", "博士"}

const (
	SalaryFloor   = 0
	SalaryCeiling = 100
)

type Job struct {
	ID          int
	Name        string
	SalaryMin   int
	SalaryMax   int
	City        string
	Tags        string
	Exp         string
	Education   string
	Treatment   string
	Description string
	IsEnable    bool
	CreatedAt   time.Time
	CompanyID   string
	CompanyName string
	CompanySlug string
	TimeAgo     string
}

// TagList splits the comma separated tags, accepting full width commas too.
func (j Job) TagList() []string {
	raw := strings.ReplaceAll(j.Tags, "，", ",")
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SalaryRange renders the salary bounds in thousands.
func (j Job) SalaryRange() string {
	return fmt.Sprintf("%dk-%dk", j.SalaryMin, j.SalaryMax)
}
