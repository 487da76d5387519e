package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ============================================================================
// 分析后端客户端
// 封装对 Python 分析服务的 HTTP 调用，失败时保留原始响应体交给分类器
// ============================================================================

// BackendClient 分析后端的 HTTP 客户端
type BackendClient struct {
	client *resty.Client
}

// NewBackendClient 创建后端客户端
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// ScanSectors 板块扫描
func (c *BackendClient) ScanSectors(ctx context.Context) (*SectorAnalysis, error) {
	var result SectorAnalysis

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/analyze/sectors")
	if err != nil {
		return nil, &RemoteError{Op: "scan_sectors", Err: err}
	}
	if resp.IsError() {
		return nil, &RemoteError{
			Op:         "scan_sectors",
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
			Err:        fmt.Errorf("板块扫描接口返回 %d", resp.StatusCode()),
		}
	}

	return &result, nil
}

// RecommendStocks 个股推荐
func (c *BackendClient) RecommendStocks(ctx context.Context, sectors []string, risk RiskPreference) (*RecommendationSet, error) {
	var result RecommendationSet

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"sectors":         sectors,
			"risk_preference": string(risk),
		}).
		SetResult(&result).
		Post("/api/analyze/stocks")
	if err != nil {
		return nil, &RemoteError{Op: "recommend_stocks", Err: err}
	}
	if resp.IsError() {
		return nil, &RemoteError{
			Op:         "recommend_stocks",
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
			Err:        fmt.Errorf("个股推荐接口返回 %d", resp.StatusCode()),
		}
	}

	return &result, nil
}

// DiagnosePortfolio 持仓诊断，返回 Markdown 文本
func (c *BackendClient) DiagnosePortfolio(ctx context.Context, snapshot PortfolioSnapshot) (string, error) {
	var result struct {
		Success   bool   `json:"success"`
		Diagnosis string `json:"diagnosis"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(snapshot).
		SetResult(&result).
		Post("/api/portfolio/diagnose")
	if err != nil {
		return "", &RemoteError{Op: "diagnose_portfolio", Err: err}
	}
	if resp.IsError() {
		return "", &RemoteError{
			Op:         "diagnose_portfolio",
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
			Err:        fmt.Errorf("持仓诊断接口返回 %d", resp.StatusCode()),
		}
	}

	if !result.Success {
		return "", &RemoteError{
			Op:         "diagnose_portfolio",
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
			Err:        errors.New("持仓诊断未成功"),
		}
	}
	return result.Diagnosis, nil
}

// LookupStockInfo 按代码查询股票基础信息
func (c *BackendClient) LookupStockInfo(ctx context.Context, tsCode string) (*StockInfo, error) {
	var result StockInfo

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("ts_code", tsCode).
		SetResult(&result).
		Get("/api/stock/lookup")
	if err != nil {
		return nil, &RemoteError{Op: "lookup_stock", Err: err}
	}
	if resp.IsError() {
		return nil, &RemoteError{
			Op:         "lookup_stock",
			StatusCode: resp.StatusCode(),
			Payload:    resp.Body(),
			Err:        fmt.Errorf("股票查询接口返回 %d", resp.StatusCode()),
		}
	}

	return &result, nil
}
