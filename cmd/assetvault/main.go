// Package main 启动应用程序
package main

import "github.com/yeisme/assetvault/pkg/cmd"

//	@title			AssetVault API
//	@version		1.0
//	@description	AssetVault 为定制服饰订单管理系统提供图片资产管道服务，
//	@description	覆盖上传校验、变体转码、对象存储、元数据管理与预签名访问链接。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
