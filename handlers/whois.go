/*
 * @Author: AsisYu
 * @Date: 2025-07-15
 * @Description: WHOIS查询处理程序
 */
package handlers

import (
	"context"
	"errors"
	"time"

	"ccwhoseek/pkg/logger"
	"ccwhoseek/services"
	"ccwhoseek/types"
	"ccwhoseek/utils"
	"ccwhoseek/whoisclient"

	"github.com/gin-gonic/gin"
)

// mapQueryError 把传输层错误翻译成HTTP状态码和错误码
// 上游超时对客户端来说是网关超时，其余传输故障按坏网关处理；
// 数据层面的永久限制不是网关问题，按客户端可见的4xx返回
func mapQueryError(err error) (int, string) {
	if errors.Is(err, types.ErrNoServerConfigured) {
		return 404, "UNSUPPORTED_TLD"
	}
	if errors.Is(err, types.ErrInvalidDomain) {
		return 400, "INVALID_DOMAIN"
	}

	var timeoutErr *whoisclient.TimeoutError
	if errors.As(err, &timeoutErr) {
		return 504, "UPSTREAM_TIMEOUT"
	}

	var emptyErr *whoisclient.EmptyResponseError
	if errors.As(err, &emptyErr) {
		return 502, "EMPTY_RESPONSE"
	}

	var connErr *whoisclient.ConnectionError
	if errors.As(err, &connErr) {
		return 502, "UPSTREAM_UNAVAILABLE"
	}

	return 500, "QUERY_ERROR"
}

// WhoisHandler WHOIS查询处理程序
func WhoisHandler(c *gin.Context) {
	// 从上下文获取必要的服务和数据
	domain, _ := c.Get("domain")
	domainStr := domain.(string)
	resultChan, _ := c.Get("resultChan")
	errorChan, _ := c.Get("errorChan")
	reqCtx, _ := c.Get("requestContext")
	workerPool, _ := c.Get("workerPool")
	whoisManager, _ := c.Get("whoisManager")

	results := resultChan.(chan interface{})
	errs := errorChan.(chan error)
	requestContext := reqCtx.(context.Context)
	pool := workerPool.(*services.WorkerPool)
	manager := whoisManager.(*services.WhoisManager)

	lg := logger.WithRequest(c, "Whois")

	// 提交任务到工作池；worker一侧从标准context还原request_id
	submitted := pool.SubmitWithContext(requestContext, func() {
		wlg := logger.FromContext(requestContext, "Whois")
		startTime := time.Now()

		wlg.Infof("查询域名: %s", domainStr)
		response, err := manager.Query(domainStr)

		if err != nil {
			wlg.Warnf("查询域名 %s 失败: %v", domainStr, err)
			errs <- err
			return
		}

		processingTime := time.Since(startTime).Milliseconds()

		fromCache := response.CachedAt != ""
		meta := &utils.MetaInfo{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Cached:     fromCache,
			CachedAt:   response.CachedAt,
			Processing: processingTime,
		}

		if !fromCache {
			wlg.Infof("查询域名 %s 完成，新数据，处理时间: %dms", domainStr, processingTime)
		} else {
			wlg.Infof("查询域名 %s 完成，命中缓存，原始缓存时间: %s", domainStr, response.CachedAt)
		}

		results <- gin.H{
			"data": gin.H{
				"domain":         response.Domain,
				"record":         response.Record,
				"whoisServer":    response.WhoisServer,
				"sourceProvider": response.SourceProvider,
			},
			"meta": meta,
		}
	})

	if !submitted {
		lg.Warnf("查询域名 %s 失败: 工作池忙碌", domainStr)
		utils.ErrorResponse(c, 503, "SERVICE_BUSY", "Service is busy, please try again later")
		return
	}

	// 等待结果或超时
	select {
	case result := <-results:
		data := result.(gin.H)
		utils.SuccessResponse(c, data["data"], data["meta"].(*utils.MetaInfo))
		lg.Infof("返回域名 %s 的查询结果", domainStr)
	case err := <-errs:
		status, code := mapQueryError(err)
		lg.Warnf("处理域名 %s 查询请求失败: %v", domainStr, err)
		utils.ErrorResponse(c, status, code, err.Error())
	case <-requestContext.Done():
		lg.Warnf("查询域名 %s 超时", domainStr)
		utils.ErrorResponse(c, 504, "TIMEOUT", "Request timed out")
	}
}

// WhoisProvidersInfoHandler 返回各WHOIS提供商的当前状态
func WhoisProvidersInfoHandler(c *gin.Context) {
	whoisManager, exists := c.Get("whoisManager")
	if !exists || whoisManager == nil {
		utils.ErrorResponse(c, 500, "SERVICE_UNAVAILABLE", "WHOIS service not available")
		return
	}
	manager := whoisManager.(*services.WhoisManager)

	utils.SuccessResponse(c, gin.H{
		"providers": manager.GetProvidersStatus(),
		"status":    manager.GetOverallStatus(),
	}, nil)
}
