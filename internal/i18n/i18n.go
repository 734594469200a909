package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// validation messages
const (
	MsgRequired         = "This field is required."
	MsgPasswordRequired = "Please enter a password."
	MsgIntegerRequired  = "Please enter an integer."
	MsgLengthBetween    = "Must be between %d and %d characters."
	MsgLengthMax        = "No more than %d characters."
	MsgEmailInvalid     = "Please enter a valid email address."
	MsgPasswordFormat   = "Only letters, digits and underscores, starting with a letter."
	MsgPasswordMismatch = "The passwords do not match."
	MsgEmailTaken       = "This email is already used by another account."
	MsgLogoInvalid      = "Please check the logo you entered."
	MsgWebsiteInvalid   = "Please check the website you entered."
	MsgPDFOnly          = "PDF files only!"
	MsgFileRequired     = "No file selected."
	MsgInvalidChoice    = "Not a valid choice."
	MsgSalaryRange      = "Must be an integer between 0 and 100."
	MsgSalaryBelowMax   = "Must be less than the maximum salary."
	MsgSalaryAboveMin   = "Must be greater than the minimum salary."
)

// flash messages
const (
	MsgJobCreated        = "Job created."
	MsgJobUpdated        = "Job updated."
	MsgJobDeleted        = "Job deleted."
	MsgJobAlreadyOffline = "Job is already offline."
	MsgJobDisabled       = "Job taken offline."
	MsgJobAlreadyOnline  = "Job is already online."
	MsgJobEnabled        = "Job published."
	MsgRegistered        = "Registration successful, please log in."
	MsgWelcomeBack       = "Welcome back, %s!"
	MsgBadCredentials    = "Wrong email or password."
	MsgLoggedOut         = "You have logged out."
	MsgProfileUpdated    = "Profile updated."
	MsgResumeDelivered   = "Resume delivered."
	MsgResumeMissing     = "Please upload your resume first."
	MsgAlreadyDelivered  = "You have already applied to this job."
	MsgNotFound          = "Page not found."
	MsgInternalError     = "Something went wrong, please try again later."
)

// field labels
const (
	LabelName           = "Name"
	LabelEmail          = "Email"
	LabelPassword       = "Password"
	LabelRepeatPassword = "Repeat password"
	LabelCompanyName    = "Company name"
	LabelRememberMe     = "Remember me"
	LabelResume         = "Resume"
	LabelAddress        = "Address"
	LabelLogo           = "Company logo"
	LabelFinanceStage   = "Finance stage"
	LabelField          = "Industry"
	LabelWebsite        = "Website"
	LabelDescription    = "Company summary"
	LabelDetails        = "Company details"
	LabelJobName        = "Job title"
	LabelSalaryMin      = "Minimum salary (thousand)"
	LabelSalaryMax      = "Maximum salary (thousand)"
	LabelCity           = "City"
	LabelTags           = "Tags (comma separated)"
	LabelExp            = "Experience"
	LabelEducation      = "Education"
	LabelTreatment      = "Benefits"
	LabelJobDescription = "Job description"
	LabelIsEnable       = "Publish"
	LabelPublishNow     = "Publish now"
	LabelPublishLater   = "Not yet"
	LabelJobID          = "Job"
)

var zhHans = map[string]string{
	MsgRequired:         "请填写内容",
	MsgPasswordRequired: "请填写密码",
	MsgIntegerRequired:  "请填写整数",
	MsgLengthBetween:    "长度须在%d～%d个字符之间",
	MsgLengthMax:        "超过%d个字符",
	MsgEmailInvalid:     "请输入合法的email地址",
	MsgPasswordFormat:   "仅限使用英文、数字、下划线，并以英文开头",
	MsgPasswordMismatch: "两次密码不一致",
	MsgEmailTaken:       "邮箱已被其他账号使用",
	MsgLogoInvalid:      "请确认您输入的Logo",
	MsgWebsiteInvalid:   "请确认您输入的网址",
	MsgPDFOnly:          "仅限PDF格式！",
	MsgFileRequired:     "文件未选择",
	MsgInvalidChoice:    "不是有效的选项",
	MsgSalaryRange:      "须填写0～100之间的整数",
	MsgSalaryBelowMax:   "需要小于最高薪水",
	MsgSalaryAboveMin:   "需要大于最低薪水",

	MsgJobCreated:        "职位创建成功",
	MsgJobUpdated:        "职位更新成功",
	MsgJobDeleted:        "职位删除成功",
	MsgJobAlreadyOffline: "职位已下线",
	MsgJobDisabled:       "职位下线成功",
	MsgJobAlreadyOnline:  "职位已上线",
	MsgJobEnabled:        "职位上线成功",
	MsgRegistered:        "注册成功，请登录",
	MsgWelcomeBack:       "欢迎回来，%s！",
	MsgBadCredentials:    "邮箱或密码错误",
	MsgLoggedOut:         "您已经退出登录",
	MsgProfileUpdated:    "资料更新成功",
	MsgResumeDelivered:   "简历投递成功",
	MsgResumeMissing:     "请先上传简历",
	MsgAlreadyDelivered:  "已经投递过该职位",
	MsgNotFound:          "页面不存在",
	MsgInternalError:     "服务器开小差了，请稍后再试",

	LabelName:           "姓名",
	LabelEmail:          "邮箱",
	LabelPassword:       "密码",
	LabelRepeatPassword: "重复密码",
	LabelCompanyName:    "企业名称",
	LabelRememberMe:     "记住登录状态",
	LabelResume:         "简历上传",
	LabelAddress:        "办公地址",
	LabelLogo:           "公司Logo",
	LabelFinanceStage:   "融资阶段",
	LabelField:          "行业领域",
	LabelWebsite:        "公司网址",
	LabelDescription:    "公司简介",
	LabelDetails:        "公司详情",
	LabelJobName:        "职位名称",
	LabelSalaryMin:      "最低薪水（单位：千元）",
	LabelSalaryMax:      "最高薪水（单位：千元）",
	LabelCity:           "工作城市",
	LabelTags:           "职位标签(用逗号区隔)",
	LabelExp:            "工作年限",
	LabelEducation:      "学历要求",
	LabelTreatment:      "职位待遇",
	LabelJobDescription: "职位描述",
	LabelIsEnable:       "发布",
	LabelPublishNow:     "立即发布",
	LabelPublishLater:   "暂不发布",
	LabelJobID:          "职位",
}

// interface strings used directly by the views
var uiZhHans = map[string]string{
	"Jobs":             "职位",
	"Latest jobs":      "最新职位",
	"Log in":           "登录",
	"Log out":          "退出",
	"Register":         "注册",
	"Register as user": "个人注册",
	"Register company": "企业注册",
	"Post a job":       "发布职位",
	"Edit job":         "编辑职位",
	"Edit":             "编辑",
	"Delete":           "删除",
	"Delete this job?": "确定删除该职位？",
	"Enable":           "上线",
	"Disable":          "下线",
	"Online":           "在线",
	"Offline":          "已下线",
	"Apply":            "投递简历",
	"Save":             "保存",
	"Submit":           "提交",
	"Filter":           "筛选",
	"Previous":         "上一页",
	"Next":             "下一页",
	"Profile":          "个人资料",
	"Company profile":  "企业资料",
	"My jobs":          "我的职位",
	"Deliveries":       "收到的简历",
	"All jobs":         "全部职位",
	"All":              "全部",
	"Company":          "公司",
	"Salary":           "薪资",
	"Applicant":        "应聘者",
	"Published":        "发布时间",
	"Status":           "状态",
	"Current resume":   "当前简历",
	"No jobs yet.":     "暂无职位",
	"No resumes yet.":  "暂无简历",
	"Job board admin":  "职位管理",
}

var supported = []language.Tag{language.SimplifiedChinese, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	for key, zh := range uiZhHans {
		zhHans[key] = zh
	}
	for key, zh := range zhHans {
		if err := message.SetString(language.SimplifiedChinese, key, zh); err != nil {
			panic(err)
		}
		if err := message.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
}

// ParseLanguage returns the supported tag closest to s, or SimplifiedChinese.
func ParseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.SimplifiedChinese
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.SimplifiedChinese
	}
	return supported[idx]
}

// NewPrinter picks the printer for an Accept-Language header value.
// An empty or unmatched header falls back to the site default.
func NewPrinter(acceptLanguage string, fallback language.Tag) *message.Printer {
	if acceptLanguage == "" {
		return message.NewPrinter(fallback)
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return message.NewPrinter(fallback)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return message.NewPrinter(fallback)
	}
	return message.NewPrinter(supported[idx])
}
