/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 02:45:00
 * @Description: 工作池 - 限制同时在途的上游WHOIS查询数量
 */
package services

import (
	"context"
	"sync"
)

// WorkerPool 固定大小的工作池
// 每次查询独占一条到注册局的连接，靠工作池把并发套接字数压在上限内
type WorkerPool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	workers int
}

// NewWorkerPool 创建指定工作者数量的工作池
func NewWorkerPool(workers int) *WorkerPool {
	return &WorkerPool{
		tasks:   make(chan func(), workers*2),
		workers: workers,
	}
}

// Start 启动工作池
func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
}

// Submit 提交任务，队列满时返回false
func (p *WorkerPool) Submit(task func()) bool {
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// SubmitWithContext 提交任务，上下文取消时放弃
func (p *WorkerPool) SubmitWithContext(ctx context.Context, task func()) bool {
	select {
	case p.tasks <- task:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Stop 停止工作池并等待在途任务结束
func (p *WorkerPool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
