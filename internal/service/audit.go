package service

import (
	"fmt"
	"strings"

	"tradelab/backend/internal/model"
)

// 审计事件 → 系统日志的静态映射。
// 模板中的 {key} 占位符由事件 payload 中的同名字段填充；
// 未登记的事件类型回退到通用模板 + INFO 级别。

type auditTemplate struct {
	module  string
	message string
	level   model.LogLevel
	levelOf func(payload map[string]interface{}) model.LogLevel // 为空时使用固定 level
}

var auditTemplates = map[string]auditTemplate{
	model.AuditStudentCreated: {
		module:  "students",
		message: "学员 {name} 建档完成（{email}）",
		level:   model.LevelSuccess,
	},
	model.AuditStudentUpdated: {
		module:  "students",
		message: "学员 {name} 资料更新：{fields}",
		level:   model.LevelInfo,
	},
	model.AuditStudentDeleted: {
		module:  "students",
		message: "学员 {name} 已归档（软删除）",
		level:   model.LevelWarning,
	},
	model.AuditPaymentUpdated: {
		module:  "payments",
		message: "学员 {name} 付款状态 {old} → {new}",
		levelOf: paymentLevel,
	},
	model.AuditOnboardingUpdated: {
		module:  "onboarding",
		message: "学员 {name} 入学进度 {old} → {new}",
		levelOf: onboardingLevel,
	},
	model.AuditTimelineUpdated: {
		module:  "onboarding",
		message: "学员 {name} 时间线步骤「{label}」更新为 {status}",
		level:   model.LevelInfo,
	},
	model.AuditDiscordSyncResult: {
		module:  "discord",
		message: "学员 {name} 角色 {role} 同步结果：{status}",
		levelOf: discordSyncLevel,
	},
}

// 付款状态变更的级别取决于新值
func paymentLevel(payload map[string]interface{}) model.LogLevel {
	switch model.PaymentStatus(stringField(payload, "new")) {
	case model.PaymentPaid:
		return model.LevelSuccess
	case model.PaymentFailed:
		return model.LevelError
	case model.PaymentPending:
		return model.LevelWarning
	default:
		return model.LevelInfo
	}
}

// 入学进度变更的级别取决于新值
func onboardingLevel(payload map[string]interface{}) model.LogLevel {
	switch model.OnboardingStatus(stringField(payload, "new")) {
	case model.OnboardingCompleted:
		return model.LevelSuccess
	case model.OnboardingNotStarted:
		return model.LevelWarning
	default:
		return model.LevelInfo
	}
}

func discordSyncLevel(payload map[string]interface{}) model.LogLevel {
	switch model.SyncStatus(stringField(payload, "status")) {
	case model.SyncSynced:
		return model.LevelSuccess
	case model.SyncFailed:
		return model.LevelError
	default:
		return model.LevelInfo
	}
}

// RenderAuditEvent 将出箱事件渲染为系统日志的 (module, level, message)
func RenderAuditEvent(event *model.AuditEvent) (string, model.LogLevel, string) {
	payload := map[string]interface{}(event.Payload)

	tpl, ok := auditTemplates[event.Kind]
	if !ok {
		// 未登记的事件类型：通用兜底
		return "system", model.LevelInfo, fmt.Sprintf("事件 %s：%v", event.Kind, payload)
	}

	level := tpl.level
	if tpl.levelOf != nil {
		level = tpl.levelOf(payload)
	}

	return tpl.module, level, fillTemplate(tpl.message, payload)
}

// fillTemplate 将 {key} 占位符替换为 payload 中的同名字段值
func fillTemplate(tpl string, payload map[string]interface{}) string {
	out := tpl
	for key, value := range payload {
		out = strings.ReplaceAll(out, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return out
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
