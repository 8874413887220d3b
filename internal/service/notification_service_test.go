package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tradelab/backend/internal/dto"
)

func TestNotificationService_CRUD(t *testing.T) {
	repo := newMockRepository()
	svc := NewNotificationService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), &dto.CreateNotificationRequest{
		Title:   "付款逾期提醒",
		Message: "3 名学员付款已逾期",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.Type != "info" {
		t.Errorf("缺省类型应为 info，实际=%s", created.Type)
	}
	if created.IsRead {
		t.Error("新通知应为未读")
	}

	// 未读过滤
	items, total, err := svc.List(context.Background(), &dto.NotificationListRequest{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("期望 1 条未读，实际 total=%d len=%d", total, len(items))
	}

	if err := svc.MarkRead(context.Background(), created.ID); err != nil {
		t.Fatalf("MarkRead 应成功: %v", err)
	}
	_, total, _ = svc.List(context.Background(), &dto.NotificationListRequest{UnreadOnly: true})
	if total != 0 {
		t.Errorf("已读后未读数应为 0，实际=%d", total)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("重复删除期望 ErrNotificationNotFound，实际: %v", err)
	}
}

func TestSettingService_PutAndGet(t *testing.T) {
	repo := newMockRepository()
	svc := NewSettingService(repo, zap.NewNop())

	if _, err := svc.Get(context.Background(), "reminder_days"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("未写入的键期望 ErrSettingNotFound，实际: %v", err)
	}

	setting, err := svc.Put(context.Background(), "reminder_days", &dto.PutSettingRequest{Value: "7"})
	if err != nil {
		t.Fatalf("Put 应成功: %v", err)
	}
	if setting.Value != "7" {
		t.Errorf("期望值 7，实际=%s", setting.Value)
	}

	// 同键覆盖写
	setting, err = svc.Put(context.Background(), "reminder_days", &dto.PutSettingRequest{Value: "14"})
	if err != nil {
		t.Fatalf("覆盖写应成功: %v", err)
	}
	if setting.Value != "14" {
		t.Errorf("期望值 14，实际=%s", setting.Value)
	}

	all, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("覆盖写不应产生新行，实际=%d", len(all))
	}
}

func TestProgramService_CreateAndUpdate(t *testing.T) {
	repo := newMockRepository()
	svc := NewProgramService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), &dto.CreateProgramRequest{
		Name:          "旗舰实战营",
		Price:         1999,
		DurationWeeks: 12,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !created.IsActive {
		t.Error("新课程缺省应为上架状态")
	}

	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateProgramRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.IsActive {
		t.Error("下架后 is_active 应为 false")
	}

	if _, err := svc.Get(context.Background(), 999); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("不存在的课程期望 ErrProgramNotFound，实际: %v", err)
	}
}

func TestMetricsService_SeedsWhenEmpty(t *testing.T) {
	repo := newMockRepository()
	svc := NewMetricsService(repo, zap.NewNop())

	rows, err := svc.ResponseMetrics(context.Background())
	if err != nil {
		t.Fatalf("ResponseMetrics 应成功: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("空表应回填样例数据")
	}

	// 二次读取不再回填
	again, err := svc.ResponseMetrics(context.Background())
	if err != nil {
		t.Fatalf("二次读取应成功: %v", err)
	}
	if len(again) != len(rows) {
		t.Errorf("二次读取不应重复回填: %d vs %d", len(again), len(rows))
	}

	volumes, err := svc.MessageVolumes(context.Background())
	if err != nil {
		t.Fatalf("MessageVolumes 应成功: %v", err)
	}
	if len(volumes) == 0 {
		t.Error("消息量空表应回填样例数据")
	}

	themes, err := svc.InquiryThemes(context.Background())
	if err != nil {
		t.Fatalf("InquiryThemes 应成功: %v", err)
	}
	if len(themes) == 0 {
		t.Error("咨询主题空表应回填样例数据")
	}

	insights, err := svc.Insights(context.Background())
	if err != nil {
		t.Fatalf("Insights 应成功: %v", err)
	}
	if len(insights) == 0 {
		t.Error("洞察空表应回填样例数据")
	}
}
