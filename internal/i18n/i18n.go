// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/cloudnotes/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"unauthorized":          "未授权",
			"forbidden":             "禁止访问",
			"not_found":             "资源未找到",

			"token_missing": "缺少身份令牌",
			"token_invalid": "令牌无效或已过期",

			"note_not_found":     "笔记未找到",
			"note_title_empty":   "笔记标题不能为空",
			"note_content_empty": "笔记内容不能为空",

			"file_missing":       "未上传文件",
			"file_forbidden":     "无权操作该文件",
			"file_upload_failed": "文件上传失败",
			"file_list_failed":   "文件列表获取失败",
			"file_delete_failed": "文件删除失败",

			"identity_signup_failed":  "注册失败",
			"identity_confirm_failed": "账号确认失败",
			"identity_login_failed":   "登录失败",
			"identity_reset_failed":   "重置密码失败",
			"storage_unavailable":     "对象存储服务不可用",
			"storage_provider_not_supported": "存储提供商不支持",
			"telemetry_unavailable":   "遥测服务不可用",

			"database_query":        "数据库查询错误",
			"database_insert":       "数据库插入错误",
			"database_update":       "数据库更新错误",
			"database_delete":       "数据库删除错误",
			"record_not_found":      "记录未找到",
			"record_already_exists": "记录已存在",
			"user_not_found":        "用户未找到",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"unauthorized":          "Unauthorized",
			"forbidden":             "Forbidden",
			"not_found":             "Resource Not Found",

			"token_missing": "Missing Authentication Token",
			"token_invalid": "Token Invalid Or Expired",

			"note_not_found":     "Note Not Found",
			"note_title_empty":   "Note Title Cannot Be Empty",
			"note_content_empty": "Note Content Cannot Be Empty",

			"file_missing":       "No File Uploaded",
			"file_forbidden":     "No Permission For This File",
			"file_upload_failed": "File Upload Failed",
			"file_list_failed":   "File List Failed",
			"file_delete_failed": "File Delete Failed",

			"identity_signup_failed":  "Registration Failed",
			"identity_confirm_failed": "Account Confirmation Failed",
			"identity_login_failed":   "Login Failed",
			"identity_reset_failed":   "Password Reset Failed",
			"storage_unavailable":     "Object Storage Unavailable",
			"storage_provider_not_supported": "Storage Provider Not Supported",
			"telemetry_unavailable":   "Telemetry Unavailable",

			"database_query":        "Database Query Error",
			"database_insert":       "Database Insert Error",
			"database_update":       "Database Update Error",
			"database_delete":       "Database Delete Error",
			"record_not_found":      "Record Not Found",
			"record_already_exists": "Record Already Exists",
			"user_not_found":        "User Not Found",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败 for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}

	logger.Info("国际化翻译器初始化完成")
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
